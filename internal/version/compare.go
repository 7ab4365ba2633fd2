package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
)

// DevelopmentVersion marks an unreleased build. It is compatible with everything.
const DevelopmentVersion = "main"

// parse reads a version with or without the leading "v".
// A development build yields nil.
func parse(role, raw string) (*semver.Version, error) {
	raw = strings.TrimPrefix(raw, "v")
	if raw == DevelopmentVersion {
		return nil, nil
	}

	parsed, err := semver.NewVersion(raw)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeVersionMismatch, err, "invalid %s version '%s'", role, raw)
	}

	return parsed, nil
}

// CheckVersionCompatibility reports whether an engine config written for
// configVersion can be loaded by engineVersion. Major and minor must match,
// patch may differ, and a development build on either side always passes.
func CheckVersionCompatibility(engineVersion, configVersion string) error {
	engine, err := parse("engine", engineVersion)
	if err != nil {
		return err
	}

	config, err := parse("config", configVersion)
	if err != nil {
		return err
	}

	if engine == nil || config == nil {
		return nil
	}

	switch {
	case engine.Major() != config.Major():
		return errors.Newf(errors.ErrCodeVersionMismatch,
			"major version mismatch: engine is %d.x.x but config targets %d.x.x",
			engine.Major(), config.Major())
	case engine.Minor() != config.Minor():
		return errors.Newf(errors.ErrCodeVersionMismatch,
			"minor version mismatch: engine is %d.%d.x but config targets %d.%d.x",
			engine.Major(), engine.Minor(), config.Major(), config.Minor())
	}

	return nil
}
