package export

import shapevocab "github.com/c360studio/semshape/vocabulary/shape"

// Profile determines which ontology type assertions are included in a
// catalog export.
type Profile string

const (
	// ProfileMinimal includes the shape vocabulary, SHACL and PROV-O types.
	ProfileMinimal Profile = "minimal"

	// ProfileBFO includes BFO type assertions plus minimal profile.
	ProfileBFO Profile = "bfo"

	// ProfileCCO includes CCO type assertions plus BFO profile.
	ProfileCCO Profile = "cco"
)

// ProfileConfig contains configuration for an export profile.
type ProfileConfig struct {
	Name        Profile
	Description string
	IncludeBFO  bool
	IncludeCCO  bool
	IncludePROV bool
}

// Profiles contains the configuration for all available export profiles.
var Profiles = map[Profile]ProfileConfig{
	ProfileMinimal: {
		Name:        ProfileMinimal,
		Description: "Shape vocabulary, SHACL and PROV-O types only",
		IncludePROV: true,
	},
	ProfileBFO: {
		Name:        ProfileBFO,
		Description: "BFO type assertions plus minimal profile",
		IncludeBFO:  true,
		IncludePROV: true,
	},
	ProfileCCO: {
		Name:        ProfileCCO,
		Description: "Full CCO/BFO/PROV-O alignment",
		IncludeBFO:  true,
		IncludeCCO:  true,
		IncludePROV: true,
	},
}

// GetProfileConfig returns the configuration for a profile, defaulting to
// the minimal profile.
func GetProfileConfig(profile Profile) ProfileConfig {
	if config, ok := Profiles[profile]; ok {
		return config
	}
	return Profiles[ProfileMinimal]
}

// TypeIRIs returns the class IRIs asserted for an entity type under profile.
// The shape vocabulary and SHACL classes are always included.
func TypeIRIs(entityType shapevocab.EntityType, profile Profile) []string {
	cfg := GetProfileConfig(profile)
	types := make([]string, 0, 5)

	if c, ok := shapevocab.ClassMap[entityType]; ok {
		types = append(types, c)
	}
	if c, ok := shapevocab.SHACLClassMap[entityType]; ok {
		types = append(types, c)
	}
	if cfg.IncludePROV {
		if c, ok := shapevocab.PROVClassMap[entityType]; ok {
			types = append(types, c)
		}
	}
	if cfg.IncludeBFO {
		if c, ok := shapevocab.BFOClassMap[entityType]; ok {
			types = append(types, c)
		}
	}
	if cfg.IncludeCCO {
		if c, ok := shapevocab.CCOClassMap[entityType]; ok {
			types = append(types, c)
		}
	}
	return types
}
