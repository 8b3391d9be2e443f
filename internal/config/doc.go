// Package config loads the session clock configuration from YAML.
//
// Loading happens in three layers: Load parses the file after expanding
// ${VAR} references, LoadWithDefaults fills unset fields from the Default*
// constants, and LoadAndValidate rejects configurations the engine cannot
// run with. A .env file next to the working directory, when present, is
// loaded into the environment before expansion.
package config
