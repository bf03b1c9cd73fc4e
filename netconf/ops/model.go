package ops

import "encoding/xml"

const (
	// Configuration Datastores
	RunningCfg   = "running"
	CandidateCfg = "candidate"
	StartupCfg   = "startup"

	// Edit Config Error Options
	StopOnErrorErrOpt     = "stop-on-error"
	ContinueOnErrorErrOpt = "continue-on-error"
	RollbackOnErrorErrOpt = "rollback-on-error"

	// Edit Config Operation Types
	MergeOp   = "merge"
	ReplaceOp = "replace"
	NoneOp    = "none"

	// Edit Config Test Options
	TestThenSetOpt = "test-then-set"
	SetOpt         = "set"
	TestOnlyOpt    = "test-only"
)

// Operation names of the standard set.
const (
	OpGet            = "get"
	OpGetConfig      = "get_config"
	OpEditConfig     = "edit_config"
	OpCopyConfig     = "copy_config"
	OpDeleteConfig   = "delete_config"
	OpLock           = "lock"
	OpUnlock         = "unlock"
	OpValidate       = "validate"
	OpCommit         = "commit"
	OpDiscardChanges = "discard_changes"
	OpCloseSession   = "close_session"
	OpKillSession    = "kill_session"
	OpGetSchema      = "get_schema"
)

// Parameter names understood by the standard operations.
const (
	ArgSource           = "source"
	ArgTarget           = "target"
	ArgFilter           = "filter"
	ArgXPath            = "xpath"
	ArgConfig           = "config"
	ArgURL              = "url"
	ArgDefaultOperation = "default_operation"
	ArgTestOption       = "test_option"
	ArgErrorOption      = "error_option"
	ArgConfirmed        = "confirmed"
	ArgConfirmTimeout   = "confirm_timeout"
	ArgPersist          = "persist"
	ArgSessionID        = "session_id"
	ArgIdentifier       = "identifier"
	ArgVersion          = "version"
	ArgFormat           = "format"
)

// Data holds the content of a <data> reply element.
type Data struct {
	XMLName xml.Name    `xml:"data"`
	Body    interface{} `xml:",any"`
	Content string      `xml:",innerxml"`
}

type Schema struct {
	Identifier string `xml:"identifier"`
	Version    string `xml:"version"`
	Format     string `xml:"format"`
	Namespace  string `xml:"namespace"`
	Location   string `xml:"location"`
}

// NetconfState holds the schema list reported by the netconf monitoring model.
type NetconfState struct {
	XMLName xml.Name `xml:"urn:ietf:params:xml:ns:yang:ietf-netconf-monitoring netconf-state"`
	Schemas struct {
		Schema []Schema `xml:"schema"`
	} `xml:"schemas"`
}
