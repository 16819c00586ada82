package config

import "time"

// FlushConf holds expired token flush settings
type FlushConf struct {
	Interval time.Duration `validate:"gt=0"`
}
