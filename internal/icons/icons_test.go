package icons

import (
	"errors"
	"path/filepath"
	"testing"
)

func testResolver(t *testing.T) *AssetResolver {
	t.Helper()
	r, err := NewAssetResolver(Roots{Light: "/ext/light", Dark: "/ext/dark"})
	if err != nil {
		t.Fatalf("NewAssetResolver() unexpected error: %v", err)
	}
	return r
}

func TestDecisionTable(t *testing.T) {
	r := testResolver(t)

	tests := []struct {
		name        string
		state       *StatusAndConclusion
		wantOutcome Outcome
		wantAsset   Icon
		wantBuiltin string
	}{
		{
			name:        "completed success",
			state:       RunState("completed", "success"),
			wantOutcome: OutcomeSuccess,
			wantAsset:   r.Asset(AssetSuccess),
			wantBuiltin: "pass",
		},
		{
			name:        "completed failure",
			state:       RunState("completed", "failure"),
			wantOutcome: OutcomeFailure,
			wantAsset:   r.Asset(AssetFailure),
			wantBuiltin: "error",
		},
		{
			name:        "completed skipped",
			state:       RunState("completed", "skipped"),
			wantOutcome: OutcomeCancelled,
			wantAsset:   r.Asset(AssetCancelled),
			wantBuiltin: "circle-slash",
		},
		{
			name:        "completed cancelled",
			state:       RunState("completed", "cancelled"),
			wantOutcome: OutcomeCancelled,
			wantAsset:   r.Asset(AssetCancelled),
			wantBuiltin: "circle-slash",
		},
		{
			name:        "completed neutral",
			state:       RunState("completed", "neutral"),
			wantOutcome: OutcomeCompletedOther,
			wantAsset:   Empty{},
			wantBuiltin: "circle",
		},
		{
			name:        "completed without conclusion",
			state:       RunState("completed", ""),
			wantOutcome: OutcomeCompletedOther,
			wantAsset:   Empty{},
			wantBuiltin: "circle",
		},
		{
			name:        "queued",
			state:       RunState("queued", ""),
			wantOutcome: OutcomeQueued,
			wantAsset:   r.Asset(AssetQueued),
			wantBuiltin: "primitive-dot",
		},
		{
			name:        "queued ignores conclusion",
			state:       RunState("queued", "failure"),
			wantOutcome: OutcomeQueued,
			wantAsset:   r.Asset(AssetQueued),
			wantBuiltin: "primitive-dot",
		},
		{
			name:        "waiting",
			state:       RunState("waiting", ""),
			wantOutcome: OutcomeWaiting,
			wantAsset:   r.Asset(AssetWaiting),
			wantBuiltin: "bell",
		},
		{
			name:        "in_progress",
			state:       RunState("in_progress", ""),
			wantOutcome: OutcomeInProgress,
			wantAsset:   BuiltinIcon{Name: "sync~spin"},
			wantBuiltin: "sync~spin",
		},
		{
			name:        "inprogress",
			state:       RunState("inprogress", ""),
			wantOutcome: OutcomeInProgress,
			wantAsset:   BuiltinIcon{Name: "sync~spin"},
			wantBuiltin: "sync~spin",
		},
		{
			name:        "unknown status",
			state:       RunState("requested", ""),
			wantOutcome: OutcomeUnknown,
			wantAsset:   Empty{},
			wantBuiltin: "circle",
		},
		{
			name:        "status case matters",
			state:       RunState("Completed", "success"),
			wantOutcome: OutcomeUnknown,
			wantAsset:   Empty{},
			wantBuiltin: "circle",
		},
		{
			name:        "absent status",
			state:       &StatusAndConclusion{},
			wantOutcome: OutcomeUnknown,
			wantAsset:   Empty{},
			wantBuiltin: "circle",
		},
		{
			name:        "absent input",
			state:       nil,
			wantOutcome: OutcomeNoData,
			wantAsset:   Empty{},
			wantBuiltin: "circle-outline",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.state); got != tt.wantOutcome {
				t.Errorf("Classify() = %v, want %v", got, tt.wantOutcome)
			}
			if got := r.Icon(tt.state); got != tt.wantAsset {
				t.Errorf("AssetResolver.Icon() = %#v, want %#v", got, tt.wantAsset)
			}
			if got := BuiltinName(tt.state); got != tt.wantBuiltin {
				t.Errorf("BuiltinName() = %q, want %q", got, tt.wantBuiltin)
			}
			if got := BuiltinIconFor(tt.state); got != (BuiltinIcon{Name: tt.wantBuiltin}) {
				t.Errorf("BuiltinIconFor() = %#v, want %q", got, tt.wantBuiltin)
			}
		})
	}
}

// Both renderers must agree on which states have a dedicated indicator.
func TestRenderersAgreeOnKnownStates(t *testing.T) {
	r := testResolver(t)

	statuses := []string{"", "completed", "queued", "waiting", "in_progress", "inprogress", "requested", "pending", "COMPLETED"}
	conclusions := []string{"", "success", "failure", "skipped", "cancelled", "neutral", "timed_out", "action_required", "stale"}

	for _, status := range statuses {
		for _, conclusion := range conclusions {
			state := RunState(status, conclusion)
			outcome := Classify(state)

			_, assetEmpty := r.Icon(state).(Empty)
			name := BuiltinName(state)
			builtinFallback := name == BuiltinCircle || name == BuiltinCircleOutline

			if assetEmpty != builtinFallback {
				t.Errorf("(%q, %q): asset empty = %v, builtin fallback = %v (%s)",
					status, conclusion, assetEmpty, builtinFallback, name)
			}
			if outcome.Known() == assetEmpty {
				t.Errorf("(%q, %q): Known() = %v but asset empty = %v", status, conclusion, outcome.Known(), assetEmpty)
			}
		}
	}
}

func TestClassify_Total(t *testing.T) {
	inputs := []string{"", " ", "completed ", "ünïcödé", "in-progress", "null", "\x00", "success"}
	for _, status := range inputs {
		for _, conclusion := range inputs {
			o := Classify(RunState(status, conclusion))
			if o.String() == "invalid" {
				t.Errorf("Classify(%q, %q) produced an undefined outcome %d", status, conclusion, int(o))
			}
		}
	}
}

func TestNewAssetResolver(t *testing.T) {
	tests := []struct {
		name     string
		provider ResourceRootProvider
		wantErr  error
	}{
		{name: "nil provider", provider: nil, wantErr: ErrNoRoots},
		{name: "empty roots", provider: Roots{}, wantErr: ErrNoRoots},
		{name: "dark root missing", provider: Roots{Light: "/l"}, wantErr: ErrNoRoots},
		{name: "extension roots", provider: ExtensionRoots("/ext"), wantErr: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAssetResolver(tt.provider)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewAssetResolver() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

type failingProvider struct{}

func (failingProvider) IconRoots() (Roots, error) {
	return Roots{}, errors.New("extension not activated")
}

func TestNewAssetResolver_ProviderError(t *testing.T) {
	if _, err := NewAssetResolver(failingProvider{}); err == nil {
		t.Error("NewAssetResolver() should propagate provider errors")
	}
}

func TestExtensionRoots_Asset(t *testing.T) {
	r, err := NewAssetResolver(ExtensionRoots("/ext"))
	if err != nil {
		t.Fatalf("NewAssetResolver() unexpected error: %v", err)
	}

	got := r.Asset("conclusions/success.svg")
	want := AssetPair{
		Light: filepath.Join("/ext", "resources", "icons", "light", "conclusions", "success.svg"),
		Dark:  filepath.Join("/ext", "resources", "icons", "dark", "conclusions", "success.svg"),
	}
	if got != want {
		t.Errorf("Asset() = %#v, want %#v", got, want)
	}
}

func TestIconKind(t *testing.T) {
	tests := []struct {
		icon Icon
		want string
	}{
		{icon: AssetPair{}, want: "asset"},
		{icon: BuiltinIcon{}, want: "builtin"},
		{icon: Empty{}, want: "empty"},
	}
	for _, tt := range tests {
		if got := tt.icon.Kind(); got != tt.want {
			t.Errorf("Kind() = %q, want %q", got, tt.want)
		}
	}
}
