package diag

import (
	"testing"

	"github.com/stretchr/testify/require"

	"sierra/internal/source"
)

func mk(code Code, sev Severity, start uint32) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  code.String(),
		Primary:  source.Span{Start: start, End: start + 1},
	}
}

func TestBagLimit(t *testing.T) {
	bag := NewBag(2)
	require.True(t, bag.Add(mk(SynUnexpectedToken, SevError, 0)))
	require.True(t, bag.Add(mk(SynUnexpectedToken, SevError, 1)))
	require.False(t, bag.Add(mk(SynUnexpectedToken, SevError, 2)))
	require.Equal(t, 2, bag.Len())
}

func TestBagHasErrors(t *testing.T) {
	bag := NewBag(8)
	require.False(t, bag.HasErrors())
	bag.Add(mk(RegDuplicateID, SevWarning, 0))
	require.False(t, bag.HasErrors())
	bag.Add(mk(RegDuplicateID, SevError, 1))
	require.True(t, bag.HasErrors())
}

func TestBagSort(t *testing.T) {
	bag := NewBag(8)
	bag.Add(mk(SynExpectSemicolon, SevError, 9))
	bag.Add(mk(LexUnknownChar, SevError, 2))
	bag.Add(mk(SynUnexpectedToken, SevError, 2))
	bag.Sort()

	items := bag.Items()
	require.Equal(t, LexUnknownChar, items[0].Code)
	require.Equal(t, SynUnexpectedToken, items[1].Code)
	require.Equal(t, SynExpectSemicolon, items[2].Code)
}

func TestBagDedup(t *testing.T) {
	bag := NewBag(8)
	bag.Add(mk(SynExpectSemicolon, SevError, 4))
	bag.Add(mk(SynExpectSemicolon, SevError, 4))
	bag.Add(mk(SynExpectSemicolon, SevError, 7))
	bag.Dedup()
	require.Equal(t, 2, bag.Len())
}

func TestBagMergeGrowsLimit(t *testing.T) {
	a := NewBag(1)
	a.Add(mk(LexUnknownChar, SevError, 0))
	b := NewBag(2)
	b.Add(mk(LexBadNumber, SevError, 1))
	b.Add(mk(LexBadNumber, SevError, 2))

	a.Merge(b)
	require.Equal(t, 3, a.Len())
	require.False(t, a.Add(mk(LexUnknownChar, SevError, 3)))
}

func TestCodeString(t *testing.T) {
	require.Equal(t, "SIE2001", SynUnexpectedToken.String())
	require.Equal(t, "SIE1001", LexUnknownChar.String())
}
