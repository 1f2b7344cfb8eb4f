package ruleset

import "go.trai.ch/hotswap/internal/core/domain"

type rawWeapon struct {
	Range       float64 `yaml:"range"`
	Damage      int     `yaml:"damage"`
	ReloadDelay int     `yaml:"reload_delay"`
	Projectile  string  `yaml:"projectile"`
}

// parseWeapons parses a weapons file:
//
//	m1carbine:
//	  range: 5
//	  damage: 10
//	  reload_delay: 20
//	  projectile: bullet
func parseWeapons(file string, data []byte) (map[string]*domain.WeaponInfo, error) {
	raw := make(map[string]rawWeapon)
	if err := decode(file, data, &raw); err != nil {
		return nil, err
	}

	weapons := make(map[string]*domain.WeaponInfo, len(raw))
	for name, w := range raw {
		weapons[name] = &domain.WeaponInfo{
			Name:        name,
			Range:       w.Range,
			Damage:      w.Damage,
			ReloadDelay: w.ReloadDelay,
			Projectile:  domain.NewInternedString(w.Projectile),
			Source:      file,
		}
	}
	return weapons, nil
}
