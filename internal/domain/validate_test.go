package domain_test

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/hearth/internal/domain"
)

func validConversation(n int) string {
	items := make([]string, n)
	for i := range items {
		role := "user"
		if i%2 == 1 {
			role = "assistant"
		}
		items[i] = fmt.Sprintf(`{"role":%q,"content":"turn %d"}`, role, i)
	}
	return "[" + strings.Join(items, ",") + "]"
}

func TestValidateConversation_Failures(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		code domain.Code
	}{
		{"missing field", "", domain.CodeInvalidFormat},
		{"null", "null", domain.CodeInvalidFormat},
		{"object instead of array", `{"role":"user"}`, domain.CodeInvalidFormat},
		{"string instead of array", `"hello"`, domain.CodeInvalidFormat},
		{"empty array", "[]", domain.CodeEmptyConversation},
		{"over the message cap", validConversation(domain.MaxConversationLength + 1), domain.CodeTooManyMessages},
		{"non-object element", `[1]`, domain.CodeMalformedMessage},
		{"string element", `["hello"]`, domain.CodeMalformedMessage},
		{
			"object and non-object mixed",
			`[{"role":"user","content":"hi"},"oops"]`,
			domain.CodeMalformedMessage,
		},
		{"missing role", `[{"content":"hi"}]`, domain.CodeMalformedMessage},
		{"missing content", `[{"role":"user"}]`, domain.CodeMalformedMessage},
		{"empty content", `[{"role":"user","content":""}]`, domain.CodeMalformedMessage},
		{"null content", `[{"role":"user","content":null}]`, domain.CodeMalformedMessage},
		{"false role", `[{"role":false,"content":"hi"}]`, domain.CodeMalformedMessage},
		{"system role", `[{"role":"system","content":"hi"}]`, domain.CodeInvalidRole},
		{"numeric role", `[{"role":1,"content":"hi"}]`, domain.CodeInvalidRole},
		{"unknown role", `[{"role":"tool","content":"hi"}]`, domain.CodeInvalidRole},
		{
			"second message offends",
			`[{"role":"user","content":"hi"},{"role":"robot","content":"hi"}]`,
			domain.CodeInvalidRole,
		},
		{
			"earliest offender wins over later ones",
			`[{"role":"user","content":""},{"role":"robot","content":"hi"}]`,
			domain.CodeMalformedMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msgs, verr := domain.ValidateConversation(json.RawMessage(tt.raw))
			require.Nil(t, msgs)
			require.NotNil(t, verr)
			require.Equal(t, tt.code, verr.Code)
		})
	}
}

func TestValidateConversation_NonObjectElementReportsItsIndex(t *testing.T) {
	raw := `[{"role":"user","content":"hi"},"oops"]`

	_, verr := domain.ValidateConversation(json.RawMessage(raw))

	require.NotNil(t, verr)
	require.Equal(t, domain.CodeMalformedMessage, verr.Code)
	require.Contains(t, verr.Message, "message 1")
}

func TestValidateConversation_Accepts(t *testing.T) {
	t.Run("single message", func(t *testing.T) {
		msgs, verr := domain.ValidateConversation(json.RawMessage(`[{"role":"user","content":"hi"}]`))
		require.Nil(t, verr)
		require.Len(t, msgs, 1)
	})

	t.Run("exactly the message cap", func(t *testing.T) {
		msgs, verr := domain.ValidateConversation(json.RawMessage(validConversation(domain.MaxConversationLength)))
		require.Nil(t, verr)
		require.Len(t, msgs, domain.MaxConversationLength)
	})

	t.Run("order is preserved", func(t *testing.T) {
		msgs, verr := domain.ValidateConversation(json.RawMessage(validConversation(4)))
		require.Nil(t, verr)
		for i, msg := range msgs {
			require.Equal(t, fmt.Sprintf("turn %d", i), msg.Content)
		}
	})
}

func TestMessageCount(t *testing.T) {
	require.Equal(t, 0, domain.MessageCount(nil))
	require.Equal(t, 0, domain.MessageCount([]byte(`"not an array"`)))
	require.Equal(t, 3, domain.MessageCount([]byte(validConversation(3))))
}
