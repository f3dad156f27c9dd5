package engineapi

import (
	"bytes"

	"gopkg.in/yaml.v2"

	"github.com/pathwaydb/flowcore/flowerrors"
)

// connectorConfigFile is the on-disk shape a connector's YAML config
// decodes into before being folded into ConnectorProperties; Columns is
// not part of it, since ColumnProperties carries a dtype.Type, which has
// no YAML representation of its own (dtypes are declared in Go, not
// config).
type connectorConfigFile struct {
	CommitDurationMS int64 `yaml:"commit_duration_ms"`
	UnsafeTrustedIDs bool  `yaml:"unsafe_trusted_ids"`
	BoundedMode      bool  `yaml:"bounded_mode"`
}

// ParseConnectorProperties decodes the non-column fields of
// ConnectorProperties from a YAML document, the way a connector's static
// settings (commit cadence, trust level, bounded/unbounded mode) are
// typically externalized into a config file rather than hardcoded. Column
// properties are never part of this document; callers set Columns
// themselves once the dtypes are known.
func ParseConnectorProperties(doc []byte) (ConnectorProperties, error) {
	var cfg connectorConfigFile
	dec := yaml.NewDecoder(bytes.NewReader(doc))
	dec.SetStrict(true)
	if err := dec.Decode(&cfg); err != nil {
		return ConnectorProperties{}, flowerrors.EngineFailure.New("parsing connector config: " + err.Error())
	}
	return ConnectorProperties{
		CommitDurationMS: cfg.CommitDurationMS,
		UnsafeTrustedIDs: cfg.UnsafeTrustedIDs,
		BoundedMode:      cfg.BoundedMode,
	}, nil
}
