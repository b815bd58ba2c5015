package config

// Version is the switchcase release reported by `switchcase version`.
const Version = "0.3.0"

// NullIndex is the result index for an absent (null) input value.
const NullIndex = -1

// ManifestFileNames are the recognized manifest file names, in lookup order
var ManifestFileNames = []string{"switchcase.yaml", "switchcase.yml"}

// DefaultListenAddr is where `switchcase serve` listens when --addr is omitted.
const DefaultListenAddr = "127.0.0.1:7457"

// DefaultCatalogFile is the sqlite catalog used when --db is omitted.
const DefaultCatalogFile = "switchcase.db"

// DefaultConcurrency bounds parallel call-point construction.
const DefaultConcurrency = 8

// CallPointIDPrefix prefixes generated identities of anonymous call points.
const CallPointIDPrefix = "cp-"
