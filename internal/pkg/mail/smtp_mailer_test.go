package mail

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/HouseHub/app/models"
)

func TestContactNotifierEscapesUserInput(t *testing.T) {
	var gotTo, gotSubject, gotBody string
	n := &ContactNotifier{To: "office@example.com", send: func(to, subject, body string) error {
		gotTo, gotSubject, gotBody = to, subject, body
		return nil
	}}

	msg := &models.ContactMessage{
		Name:    "Eve <script>",
		Email:   "eve@example.com",
		Subject: "Viewing",
		Message: "line one\nline two",
	}
	require.NoError(t, n.NotifyContact(msg))

	assert.Equal(t, "office@example.com", gotTo)
	assert.Equal(t, "[HouseHub] Viewing", gotSubject)
	assert.Contains(t, gotBody, "Eve &lt;script&gt;")
	assert.Contains(t, gotBody, "line one<br>line two")
	assert.NotContains(t, gotBody, "Phone")
}
