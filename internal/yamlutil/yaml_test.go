package yamlutil_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-handbook/internal/yamlutil"
)

type testConfig struct {
	Name  string            `yaml:"name"`
	Depth int               `yaml:"depth"`
	Alias map[string]string `yaml:"alias"`
}

func TestUnmarshalStrict(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    []byte
		dest    any
		wantErr error
		errText string
	}{
		{
			name: "valid YAML",
			data: []byte("name: test\ndepth: 6\nalias:\n  /.*/_sidebar.md: /_sidebar.md\n"),
			dest: &testConfig{},
		},
		{
			name:    "nil data",
			data:    nil,
			dest:    &testConfig{},
			wantErr: yamlutil.ErrNilData,
		},
		{
			name:    "nil destination",
			data:    []byte("name: x"),
			dest:    nil,
			wantErr: yamlutil.ErrNilDestination,
		},
		{
			name:    "unknown field rejected",
			data:    []byte("name: x\nunknown: y"),
			dest:    &testConfig{},
			errText: "yamlutil:",
		},
		{
			name:    "malformed YAML",
			data:    []byte("name: [unclosed"),
			dest:    &testConfig{},
			errText: "yamlutil:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := yamlutil.UnmarshalStrict(tt.data, tt.dest)
			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("UnmarshalStrict() error = %v, want %v", err, tt.wantErr)
				}
			case tt.errText != "":
				if err == nil || !strings.Contains(err.Error(), tt.errText) {
					t.Errorf("UnmarshalStrict() error = %v, want containing %q", err, tt.errText)
				}
			default:
				if err != nil {
					t.Fatalf("UnmarshalStrict() unexpected error: %v", err)
				}
				cfg := tt.dest.(*testConfig)
				if cfg.Name != "test" || cfg.Depth != 6 || cfg.Alias["/.*/_sidebar.md"] != "/_sidebar.md" {
					t.Errorf("decoded = %+v", cfg)
				}
			}
		})
	}
}

func TestUnmarshalStrict_TooLarge(t *testing.T) {
	// Not parallel: mutates MaxInputSize.
	orig := yamlutil.MaxInputSize
	yamlutil.MaxInputSize = 8
	defer func() { yamlutil.MaxInputSize = orig }()

	err := yamlutil.UnmarshalStrict([]byte("name: too long for limit"), &testConfig{})
	if !errors.Is(err, yamlutil.ErrInputTooLarge) {
		t.Errorf("UnmarshalStrict() error = %v, want ErrInputTooLarge", err)
	}
}

func TestMarshal_RoundTrip(t *testing.T) {
	t.Parallel()

	in := testConfig{Name: "handbook", Depth: 3}
	data, err := yamlutil.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if !strings.Contains(string(data), "name: handbook") {
		t.Errorf("Marshal() output missing name:\n%s", data)
	}

	var out testConfig
	if err := yamlutil.UnmarshalStrict(data, &out); err != nil {
		t.Fatalf("UnmarshalStrict() error: %v", err)
	}
	if out.Name != in.Name || out.Depth != in.Depth {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}
}
