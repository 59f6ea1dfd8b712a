// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"testing"
)

func TestOnConflict_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value   OnConflict
		want    bool
		wantErr bool
	}{
		{OnConflictOverride, true, false},
		{OnConflictError, true, false},
		{"", false, true},
		{"merge", false, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.value), func(t *testing.T) {
			t.Parallel()

			valid, errs := tt.value.IsValid()
			if valid != tt.want {
				t.Errorf("OnConflict(%q).IsValid() = %v, want %v", tt.value, valid, tt.want)
			}
			if tt.wantErr {
				if len(errs) == 0 || !errors.Is(errs[0], ErrInvalidOnConflict) {
					t.Errorf("OnConflict(%q).IsValid() errors = %v, want ErrInvalidOnConflict", tt.value, errs)
				}
			} else if len(errs) > 0 {
				t.Errorf("OnConflict(%q).IsValid() unexpected errors: %v", tt.value, errs)
			}
		})
	}
}

func TestRuntimeMode_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value RuntimeMode
		want  bool
	}{
		{RuntimeNative, true},
		{RuntimeVirtual, true},
		{"container", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.value), func(t *testing.T) {
			t.Parallel()

			valid, errs := tt.value.IsValid()
			if valid != tt.want {
				t.Errorf("RuntimeMode(%q).IsValid() = %v, want %v", tt.value, valid, tt.want)
			}
			if !valid && !errors.Is(errs[0], ErrInvalidRuntimeMode) {
				t.Errorf("RuntimeMode(%q) error does not wrap ErrInvalidRuntimeMode", tt.value)
			}
		})
	}
}

func TestConfig_IsValidCollectsFieldErrors(t *testing.T) {
	t.Parallel()

	cfg := Config{OnConflict: "merge", Runtime: "container", DsFiles: []string{"ok", ""}}
	valid, errs := cfg.IsValid()
	if valid {
		t.Fatal("IsValid() = true, want false")
	}
	if len(errs) != 1 || !errors.Is(errs[0], ErrInvalidConfig) {
		t.Fatalf("IsValid() errors = %v, want one InvalidConfigError", errs)
	}
	var ice *InvalidConfigError
	if !errors.As(errs[0], &ice) {
		t.Fatalf("error = %T, want *InvalidConfigError", errs[0])
	}
	if len(ice.FieldErrors) != 3 {
		t.Errorf("len(FieldErrors) = %d, want 3", len(ice.FieldErrors))
	}
	if !errors.Is(ice.FieldErrors[2], ErrInvalidDsFilePattern) {
		t.Errorf("FieldErrors[2] = %v, want ErrInvalidDsFilePattern", ice.FieldErrors[2])
	}
}
