package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Scanner.
	LexUnknownChar Code = 1001
	LexBadNumber   Code = 1002

	// Parser.
	SynUnexpectedToken   Code = 2001
	SynExpectSemicolon   Code = 2002
	SynUnclosedDelimiter Code = 2003
	SynBadBranchTarget   Code = 2004
	SynBadGenericArg     Code = 2005

	// Registry.
	RegUnsupportedTypeID    Code = 3001
	RegUnsupportedLibFuncID Code = 3002
	RegWrongGenericArgCount Code = 3003
	RegUnsupportedArg       Code = 3004
	RegDuplicateID          Code = 3005
	RegMissingDependency    Code = 3006
	RegArityMismatch        Code = 3007
	RegBadTarget            Code = 3008
	RegBadFunction          Code = 3009
)

func (c Code) String() string {
	return fmt.Sprintf("SIE%04d", uint16(c))
}
