// Package config loads start.yml.
//
// Load searches for start.yml, start.yaml, .start.yml and config/start.yml
// in the working directory, loads a .env file if one is found, then
// overrides file values with START_-prefixed environment variables using
// underscore-separated paths (START_LOGGING_LEVEL sets logging.level,
// START_REPORTER_FORMAT sets reporter.format).
//
// # Usage
//
//	var s config.Settings
//	if err := config.Load(&s, config.WithConfigFile(path)); err != nil {
//	    return err
//	}
//	s.ApplyDefaults()
//	err := s.Validate()
package config
