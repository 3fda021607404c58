package client

import "github.com/vegasq/policycat/internal/reader"

type outcomeKind int

const (
	outcomeOK outcomeKind = iota
	outcomeTimedOut
	outcomeFailed
)

// outcome is the result of one request before it is mapped to the public
// (table, error) pair
type outcome struct {
	kind  outcomeKind
	table *reader.Table
	err   error
}

func succeeded(t *reader.Table) outcome {
	return outcome{kind: outcomeOK, table: t}
}

// timedOut keeps the underlying cause for logging only
func timedOut(cause error) outcome {
	return outcome{kind: outcomeTimedOut, err: cause}
}

func failed(err error) outcome {
	return outcome{kind: outcomeFailed, err: err}
}
