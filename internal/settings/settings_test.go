package settings

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var testSchema = Common.Merge(Schema{
	{Name: "caption", Default: "", Type: String},
	{Name: "lines", Default: 0, Type: Int},
	{Name: "scale", Default: 1.0, Type: Float},
	{Name: "numbered", Default: true, Type: Bool},
	{Name: "tags", Default: []string(nil), Type: List},
})

func TestSplit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		wantRest string
		wantRaw  map[string]string
		wantErr  error
	}{
		{
			name:     "text only",
			input:    "foo.go",
			wantRest: "foo.go",
			wantRaw:  map[string]string{},
		},
		{
			name:     "text then settings",
			input:    "foo.go caption=The main loop lines=4",
			wantRest: "foo.go",
			wantRaw:  map[string]string{"caption": "The main loop", "lines": "4"},
		},
		{
			name:     "quoted value",
			input:    `id="fig-1" class='wide'`,
			wantRest: "",
			wantRaw:  map[string]string{"id": "fig-1", "class": "wide"},
		},
		{
			name:    "duplicate key",
			input:   "id=a id=b",
			wantErr: ErrMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rest, raw, err := Split(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Split() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Split() unexpected error: %v", err)
			}
			if rest != tt.wantRest {
				t.Errorf("rest = %q, want %q", rest, tt.wantRest)
			}
			if diff := cmp.Diff(tt.wantRaw, raw); diff != "" {
				t.Errorf("raw mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSchemaParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    Values
		wantErr error
	}{
		{
			name:  "defaults",
			input: "",
			want: Values{
				"id": "", "class": "", "style": "",
				"caption": "", "lines": 0, "scale": 1.0, "numbered": true, "tags": []string(nil),
			},
		},
		{
			name:  "typed values",
			input: "lines=3 scale=0.5 numbered=false tags=a b",
			want: Values{
				"id": "", "class": "", "style": "",
				"caption": "", "lines": 3, "scale": 0.5, "numbered": false, "tags": []string{"a", "b"},
			},
		},
		{name: "unknown key", input: "colour=red", wantErr: ErrUnknownSetting},
		{name: "bad int", input: "lines=many", wantErr: ErrInvalidValue},
		{name: "bad bool", input: "numbered=perhaps", wantErr: ErrInvalidValue},
		{name: "leading text", input: "oops id=a", wantErr: ErrMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := testSchema.Parse(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Parse() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse() unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSchemaValidate(t *testing.T) {
	t.Parallel()

	got, err := testSchema.Validate(map[string]any{
		"lines": uint64(7),
		"scale": 2,
		"tags":  []any{"x", 1},
	})
	if err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}
	if got.Int("lines") != 7 || got.Float("scale") != 2 {
		t.Errorf("Validate() lines=%d scale=%v", got.Int("lines"), got.Float("scale"))
	}
	if diff := cmp.Diff([]string{"x", "1"}, got.List("tags")); diff != "" {
		t.Errorf("tags mismatch (-want +got):\n%s", diff)
	}

	if _, err := testSchema.Validate(map[string]any{"numbered": 3}); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("Validate(numbered=3) error = %v, want ErrInvalidValue", err)
	}
}

func TestMerge_Overrides(t *testing.T) {
	t.Parallel()

	s := Common.Merge(Schema{{Name: "id", Default: "auto", Type: String}})
	if len(s) != len(Common) {
		t.Fatalf("len = %d, want %d", len(s), len(Common))
	}
	d, _ := s.Lookup("id")
	if d.Default != "auto" {
		t.Errorf("id default = %v, want auto", d.Default)
	}
}

func TestAttributes(t *testing.T) {
	t.Parallel()

	v, err := Common.Parse("id=intro class=lead")
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]any{"id": "intro", "class": "lead", "style": ""}
	if diff := cmp.Diff(want, v.Attributes()); diff != "" {
		t.Errorf("Attributes() mismatch (-want +got):\n%s", diff)
	}
}
