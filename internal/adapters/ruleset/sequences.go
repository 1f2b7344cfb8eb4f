package ruleset

import "go.trai.ch/hotswap/internal/core/domain"

type rawSequence struct {
	Start   int `yaml:"start"`
	Length  int `yaml:"length"`
	Facings int `yaml:"facings"`
	Tick    int `yaml:"tick"`
}

// defaultSequenceTick is the frame duration, in milliseconds, of sequences that do not set one.
const defaultSequenceTick = 40

// parseSequences parses a sequence file, keyed by unit and then by sequence name:
//
//	e1:
//	  stand: {start: 0, facings: 8}
//	  run: {start: 8, length: 6, facings: 8}
func parseSequences(file string, data []byte) (map[string]map[string]*domain.SequenceInfo, error) {
	raw := make(map[string]map[string]rawSequence)
	if err := decode(file, data, &raw); err != nil {
		return nil, err
	}

	units := make(map[string]map[string]*domain.SequenceInfo, len(raw))
	for unit, seqs := range raw {
		unitName := domain.NewInternedString(unit)
		parsed := make(map[string]*domain.SequenceInfo, len(seqs))
		for name, s := range seqs {
			info := &domain.SequenceInfo{
				Unit:    unitName,
				Name:    domain.NewInternedString(name),
				Start:   s.Start,
				Length:  max(s.Length, 1),
				Facings: max(s.Facings, 1),
				Tick:    s.Tick,
				Source:  file,
			}
			if info.Tick <= 0 {
				info.Tick = defaultSequenceTick
			}
			parsed[name] = info
		}
		units[unit] = parsed
	}
	return units, nil
}
