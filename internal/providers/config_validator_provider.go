package providers

import (
	"benchstore/internal/structures"
	"errors"
	"fmt"

	"github.com/gookit/validate"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

func (cv *CnfValidator) Validate() error {
	v := validate.Struct(cv.conf)
	if !v.Validate() {
		return fmt.Errorf("invalid config: %s", v.Errors.Error())
	}
	if cv.conf.Alert.Threshold < 1 {
		return errors.New("invalid config: alert.threshold must be >= 1")
	}
	if cv.conf.Cache.Enabled && cv.conf.Cache.Size < 0 {
		return errors.New("invalid config: cache.size must not be negative")
	}
	return nil
}
