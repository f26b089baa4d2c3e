package textfold

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Fold_MapsTurkishCharactersInBothCases(t *testing.T) {
	assert.Equal(t, "isguoc", Fold("ışğüöç"))
	assert.Equal(t, "isguoc", Fold("IŞĞÜÖÇ"))
	assert.Equal(t, "istanbul", Fold("İstanbul"))
	assert.Equal(t, "cigdem", Fold("Çiğdem"))
}

func Test_Fold_LowercasesPlainText(t *testing.T) {
	assert.Equal(t, "the go programming language", Fold("The Go Programming Language"))
}

func Test_Key_CollapsesWhitespace(t *testing.T) {
	assert.Equal(t, "ayse yilmaz", Key("  Ayşe   Yılmaz "))
	assert.Equal(t, "", Key("   "))
}

func Test_Contains_MatchesAcrossCaseAndDiacritics(t *testing.T) {
	assert.True(t, Contains("Suç ve Ceza", "SUC"))
	assert.True(t, Contains("Kürk Mantolu Madonna", "kurk"))
	assert.False(t, Contains("Kürk Mantolu Madonna", "ceza"))
}

func Test_Contains_EmptyNeedleMatchesEverything(t *testing.T) {
	assert.True(t, Contains("anything", ""))
}

func Test_Equal_IgnoresCaseDiacriticsAndSpacing(t *testing.T) {
	assert.True(t, Equal("Ayşe Yılmaz", "ayse  yilmaz"))
	assert.True(t, Equal("İREM", "irem"))
	assert.False(t, Equal("Ayşe Yılmaz", "Ayşe Demir"))
}
