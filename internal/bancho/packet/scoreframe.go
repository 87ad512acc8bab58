package packet

import "fmt"

// ScoreFrame is the fixed 29-byte in-play score snapshot the client streams
// while playing. When ScoreV2 is set two additional float64 fields follow.
type ScoreFrame struct {
	Time         int32
	ID           uint8
	Num300       uint16
	Num100       uint16
	Num50        uint16
	NumGeki      uint16
	NumKatu      uint16
	NumMiss      uint16
	TotalScore   int32
	CurrentCombo uint16
	MaxCombo     uint16
	Perfect      bool
	CurrentHP    uint8
	TagByte      uint8
	ScoreV2      bool

	// Only meaningful when ScoreV2 is set.
	ComboPortion float64
	BonusPortion float64
}

// ReadScoreFrame decodes a score frame from r.
func ReadScoreFrame(r *Reader) (ScoreFrame, error) {
	var sf ScoreFrame
	var err error

	if sf.Time, err = r.ReadInt(); err != nil {
		return sf, fmt.Errorf("scoreframe time: %w", err)
	}
	if sf.ID, err = r.ReadByte(); err != nil {
		return sf, fmt.Errorf("scoreframe id: %w", err)
	}
	if sf.Num300, err = r.ReadUShort(); err != nil {
		return sf, fmt.Errorf("scoreframe num300: %w", err)
	}
	if sf.Num100, err = r.ReadUShort(); err != nil {
		return sf, fmt.Errorf("scoreframe num100: %w", err)
	}
	if sf.Num50, err = r.ReadUShort(); err != nil {
		return sf, fmt.Errorf("scoreframe num50: %w", err)
	}
	if sf.NumGeki, err = r.ReadUShort(); err != nil {
		return sf, fmt.Errorf("scoreframe geki: %w", err)
	}
	if sf.NumKatu, err = r.ReadUShort(); err != nil {
		return sf, fmt.Errorf("scoreframe katu: %w", err)
	}
	if sf.NumMiss, err = r.ReadUShort(); err != nil {
		return sf, fmt.Errorf("scoreframe miss: %w", err)
	}
	if sf.TotalScore, err = r.ReadInt(); err != nil {
		return sf, fmt.Errorf("scoreframe total: %w", err)
	}
	if sf.CurrentCombo, err = r.ReadUShort(); err != nil {
		return sf, fmt.Errorf("scoreframe combo: %w", err)
	}
	if sf.MaxCombo, err = r.ReadUShort(); err != nil {
		return sf, fmt.Errorf("scoreframe max combo: %w", err)
	}

	perfect, err := r.ReadByte()
	if err != nil {
		return sf, fmt.Errorf("scoreframe perfect: %w", err)
	}
	sf.Perfect = perfect != 0

	if sf.CurrentHP, err = r.ReadByte(); err != nil {
		return sf, fmt.Errorf("scoreframe hp: %w", err)
	}
	if sf.TagByte, err = r.ReadByte(); err != nil {
		return sf, fmt.Errorf("scoreframe tag byte: %w", err)
	}

	v2, err := r.ReadByte()
	if err != nil {
		return sf, fmt.Errorf("scoreframe score_v2: %w", err)
	}
	sf.ScoreV2 = v2 != 0

	if sf.ScoreV2 {
		if sf.ComboPortion, err = r.ReadDouble(); err != nil {
			return sf, fmt.Errorf("scoreframe combo portion: %w", err)
		}
		if sf.BonusPortion, err = r.ReadDouble(); err != nil {
			return sf, fmt.Errorf("scoreframe bonus portion: %w", err)
		}
	}

	return sf, nil
}

// Write encodes the score frame into w.
func (sf *ScoreFrame) Write(w *Writer) {
	w.WriteInt(sf.Time)
	_ = w.WriteByte(sf.ID)
	w.WriteUShort(sf.Num300)
	w.WriteUShort(sf.Num100)
	w.WriteUShort(sf.Num50)
	w.WriteUShort(sf.NumGeki)
	w.WriteUShort(sf.NumKatu)
	w.WriteUShort(sf.NumMiss)
	w.WriteInt(sf.TotalScore)
	w.WriteUShort(sf.CurrentCombo)
	w.WriteUShort(sf.MaxCombo)
	w.WriteBool(sf.Perfect)
	_ = w.WriteByte(sf.CurrentHP)
	_ = w.WriteByte(sf.TagByte)
	w.WriteBool(sf.ScoreV2)
	if sf.ScoreV2 {
		w.WriteDouble(sf.ComboPortion)
		w.WriteDouble(sf.BonusPortion)
	}
}
