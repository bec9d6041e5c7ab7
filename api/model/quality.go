package model

import (
	"fmt"
)

// Quality is the generation quality level sent to the API. It also decides
// the encoder quality used for lossy output formats.
type Quality struct {
	s string
}

var (
	QualityLow    = Quality{"low"}
	QualityMedium = Quality{"medium"}
	QualityHigh   = Quality{"high"}
	QualityAuto   = Quality{"auto"}
)

const DefaultSize = "1536x1024"

func (q Quality) String() string {
	return q.s
}

// EncoderQuality maps the level onto the 0-100 scale of the image encoders.
func (q Quality) EncoderQuality() float32 {
	switch q {
	case QualityLow:
		return 70
	case QualityMedium:
		return 85
	default:
		return 95
	}
}

func QualityFromString(s string) (Quality, error) {
	switch s {
	case QualityLow.s:
		return QualityLow, nil
	case QualityMedium.s:
		return QualityMedium, nil
	case QualityHigh.s:
		return QualityHigh, nil
	case QualityAuto.s:
		return QualityAuto, nil
	}

	return Quality{}, fmt.Errorf("unknown quality: %q (use low, medium, high or auto)", s)
}

func (q *Quality) UnmarshalText(text []byte) error {
	parsed, err := QualityFromString(string(text))
	if err != nil {
		return err
	}
	*q = parsed
	return nil
}

func (q Quality) MarshalText() ([]byte, error) {
	return []byte(q.s), nil
}

func (q *Quality) Set(s string) error {
	return q.UnmarshalText([]byte(s))
}

func (q *Quality) Type() string {
	return "quality"
}
