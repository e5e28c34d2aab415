package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chorelang/chore/internal/token"
)

func TestNextTokenKeywordsAndPunctuation(t *testing.T) {
	l := New(`let x = "hi"; exec(echo $x); depends(a, b) if for in`)

	var kinds []token.Type
	for {
		tok, _, _ := l.NextToken()
		kinds = append(kinds, tok.Type)
		if tok.Type == token.EOF {
			break
		}
	}

	assert.Equal(t, []token.Type{
		token.LET, token.IDENTIFIER, token.EQUALS, token.STRING, token.SEMICOLON,
		token.EXEC, token.LPAREN,
	}, kinds[:7])
}

func TestNextTokenVariable(t *testing.T) {
	l := New("$name")
	tok, _, _ := l.NextToken()
	require.Equal(t, token.VARIABLE, tok.Type)
	assert.Equal(t, "name", tok.Text)
}

func TestNextTokenStringEscapes(t *testing.T) {
	l := New(`"a\nb\t\"c\\d"`)
	tok, _, _ := l.NextToken()
	require.Equal(t, token.STRING, tok.Type)
	assert.Equal(t, "a\nb\t\"c\\d", tok.Text)
}

func TestDocCommentAttachesToNextToken(t *testing.T) {
	l := New("/// builds the project\nbuild {")
	tok, doc, hasDoc := l.NextToken()
	require.Equal(t, token.IDENTIFIER, tok.Type)
	assert.True(t, hasDoc)
	assert.Equal(t, "builds the project", doc)
}

func TestOrdinaryCommentsDoNotProduceDoc(t *testing.T) {
	l := New("// not a doc\n@REM also not\n/* nor this */\nbuild {")
	tok, _, hasDoc := l.NextToken()
	require.Equal(t, token.IDENTIFIER, tok.Type)
	assert.False(t, hasDoc)
}

func TestScanRawShellStopsAtMatchingParen(t *testing.T) {
	l := New(`echo "(nested)" $x)tail`)
	shell, err := l.ScanRawShell()
	require.NoError(t, err)
	assert.Equal(t, `echo "(nested)" $x`, shell)

	// cursor now sits on the ')' the parser consumes next
	tok, _, _ := l.NextToken()
	assert.Equal(t, token.RPAREN, tok.Type)
}

func TestScanRawShellUnterminated(t *testing.T) {
	l := New(`echo hi`)
	_, err := l.ScanRawShell()
	assert.Error(t, err)
}

func TestEqEqVsEquals(t *testing.T) {
	l := New(`= ==`)
	tok1, _, _ := l.NextToken()
	tok2, _, _ := l.NextToken()
	assert.Equal(t, token.EQUALS, tok1.Type)
	assert.Equal(t, token.EQ_EQ, tok2.Type)
}
