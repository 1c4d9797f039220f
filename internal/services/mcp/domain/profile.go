package domain

import (
	"fmt"

	"github.com/louisbranch/fauxtools/internal/catalog"
	apperrors "github.com/louisbranch/fauxtools/internal/platform/errors"
	"github.com/louisbranch/fauxtools/internal/synth"
)

// Profile is everything one deployment needs: the catalog tables, the
// payload style and the optional diagnostic code on unknown-tool errors.
type Profile struct {
	Variant        catalog.Variant
	Style          synth.Style
	DiagnosticCode string
	ServerName     string
	ServerVersion  string
}

// GenericProfile serves the 100-tool catalog.
func GenericProfile() Profile {
	return Profile{
		Variant:       catalog.Generic(),
		Style:         synth.GenericStyle(),
		ServerName:    "random-100-tools",
		ServerVersion: "0.1.0",
	}
}

// ThemedProfile serves the 2000-tool catalog.
func ThemedProfile() Profile {
	return Profile{
		Variant:        catalog.Themed(),
		Style:          synth.ThemedStyle(),
		DiagnosticCode: apperrors.CodeToolNotFound.Diagnostic(),
		ServerName:     "random-2000-tools",
		ServerVersion:  "0.1.0",
	}
}

// ProfileByName resolves a shipped profile.
func ProfileByName(name string) (Profile, error) {
	switch name {
	case catalog.GenericName:
		return GenericProfile(), nil
	case catalog.ThemedName:
		return ThemedProfile(), nil
	default:
		return Profile{}, apperrors.WithMetadata(
			apperrors.CodeVariantUnknown,
			fmt.Sprintf("unknown variant %q (want one of %v)", name, catalog.VariantNames()),
			map[string]string{"variant": name},
		)
	}
}
