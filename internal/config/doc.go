// Package config manages user-level defaults stored at ~/.pkginit/config.yaml.
// Values can also come from PKGINIT_* environment variables. The file is
// checked against an embedded JSON schema by Validate and ValidateFile.
package config
