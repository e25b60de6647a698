package aicontext

// Context is the flattened fact sheet about a user fed to the advisor
// prompt. Every field is optional; absent facts stay zero-valued and
// are omitted from the serialized form.
type Context struct {
  Name            string   `json:"name,omitempty"`
  Location        string   `json:"location,omitempty"`
  FarmSize        float64  `json:"farm_size,omitempty"`
  HasFarmSize     bool     `json:"-"`
  SoilType        string   `json:"soil_type,omitempty"`
  IrrigationType  string   `json:"irrigation_type,omitempty"`
  ExperienceLevel string   `json:"experience_level,omitempty"`
  PrimaryCrops    []string `json:"primary_crops,omitempty"`
}

// Assemble flattens a raw profile document into a Context. Profiles
// come in two shapes that may co-exist across users: a legacy flat
// shape (location, farm_size, soil_type, irrigation_type as direct
// fields) and an enhanced nested shape (personal_info, farm_profile,
// farming_profile). For each fact the flat field wins when present and
// the nested path is the fallback. A fact that is absent or wrongly
// typed on both paths is omitted; an empty profile yields an empty but
// usable Context.
func Assemble(profile map[string]any) Context {
  var ctx Context
  if profile == nil {
    return ctx
  }

  if name, ok := getString(profile, "name"); ok {
    ctx.Name = name
  } else if name, ok := getString(profile, "personal_info", "full_name"); ok {
    ctx.Name = name
  }

  ctx.Location = resolveLocation(profile)

  if size, ok := getFloat(profile, "farm_size"); ok {
    ctx.FarmSize = size
    ctx.HasFarmSize = true
  } else if size, ok := getFloat(profile, "farm_profile", "farm_details", "total_area"); ok {
    ctx.FarmSize = size
    ctx.HasFarmSize = true
  }

  if soil, ok := getString(profile, "soil_type"); ok {
    ctx.SoilType = soil
  } else if soil, ok := getString(profile, "farm_profile", "soil_information", "primary_soil_type"); ok {
    ctx.SoilType = soil
  }

  if irrigation, ok := getString(profile, "irrigation_type"); ok {
    ctx.IrrigationType = irrigation
  } else if irrigation, ok := getString(profile, "farm_profile", "irrigation_system", "primary_method"); ok {
    ctx.IrrigationType = irrigation
  }

  // No flat equivalents exist for these two facts.
  if level, ok := getString(profile, "farming_profile", "experience_level"); ok {
    ctx.ExperienceLevel = level
  }
  if crops, ok := getStringSlice(profile, "farming_profile", "primary_crops"); ok {
    ctx.PrimaryCrops = crops
  }

  return ctx
}

// resolveLocation prefers the flat location string, then the enhanced
// farm_profile.location (a string, or an object whose district and
// state join as "district, state"), then a free-text address.
func resolveLocation(profile map[string]any) string {
  if location, ok := getString(profile, "location"); ok {
    return location
  }

  if location, ok := getString(profile, "farm_profile", "location"); ok {
    return location
  }
  if nested, ok := getMap(profile, "farm_profile", "location"); ok {
    district, hasDistrict := getString(nested, "district")
    state, hasState := getString(nested, "state")
    switch {
    case hasDistrict && hasState:
      return district + ", " + state
    case hasState:
      return state
    case hasDistrict:
      return district
    }
  }

  if address, ok := getString(profile, "address"); ok {
    return address
  }
  return ""
}
