package icons

import (
	"errors"
	"fmt"
	"path/filepath"
)

// ErrNoRoots is returned when asset resolution is attempted without theme roots.
var ErrNoRoots = errors.New("icons: resource roots not configured")

// Logical asset paths, relative to a theme root.
const (
	AssetSuccess   = "conclusions/success.svg"
	AssetFailure   = "conclusions/failure.svg"
	AssetCancelled = "conclusions/cancelled.svg"
	AssetQueued    = "statuses/queued.svg"
	AssetWaiting   = "statuses/waiting.svg"
)

// assetPaths holds the outcomes drawn from image files. In-progress uses the
// animated built-in icon instead; everything else renders empty.
var assetPaths = map[Outcome]string{
	OutcomeSuccess:   AssetSuccess,
	OutcomeFailure:   AssetFailure,
	OutcomeCancelled: AssetCancelled,
	OutcomeQueued:    AssetQueued,
	OutcomeWaiting:   AssetWaiting,
}

// Roots are the per-theme directories icon assets are resolved against.
type Roots struct {
	Light string `json:"light"`
	Dark  string `json:"dark"`
}

// ExtensionRoots returns the roots used by an extension installed at root.
func ExtensionRoots(root string) Roots {
	return Roots{
		Light: filepath.Join(root, "resources", "icons", "light"),
		Dark:  filepath.Join(root, "resources", "icons", "dark"),
	}
}

// IconRoots implements ResourceRootProvider.
func (r Roots) IconRoots() (Roots, error) {
	return r, nil
}

// ResourceRootProvider supplies the theme roots for asset resolution.
type ResourceRootProvider interface {
	IconRoots() (Roots, error)
}

// AssetResolver renders run states as theme asset pairs.
type AssetResolver struct {
	roots Roots
}

// NewAssetResolver captures the roots from provider. Both roots must be set.
func NewAssetResolver(provider ResourceRootProvider) (*AssetResolver, error) {
	if provider == nil {
		return nil, ErrNoRoots
	}
	roots, err := provider.IconRoots()
	if err != nil {
		return nil, fmt.Errorf("resolving icon roots: %w", err)
	}
	if roots.Light == "" || roots.Dark == "" {
		return nil, ErrNoRoots
	}
	return &AssetResolver{roots: roots}, nil
}

// Roots returns the theme roots in use.
func (r *AssetResolver) Roots() Roots {
	return r.roots
}

// Asset joins a logical asset path against both theme roots. The filesystem
// is not consulted.
func (r *AssetResolver) Asset(rel string) AssetPair {
	return AssetPair{
		Light: filepath.Join(r.roots.Light, filepath.FromSlash(rel)),
		Dark:  filepath.Join(r.roots.Dark, filepath.FromSlash(rel)),
	}
}

// IconFor renders an outcome.
func (r *AssetResolver) IconFor(o Outcome) Icon {
	if rel, ok := assetPaths[o]; ok {
		return r.Asset(rel)
	}
	if o == OutcomeInProgress {
		return BuiltinIcon{Name: BuiltinSyncSpin}
	}
	return Empty{}
}

// Icon returns the indicator for a run state.
func (r *AssetResolver) Icon(s *StatusAndConclusion) Icon {
	return r.IconFor(Classify(s))
}
