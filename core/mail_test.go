package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmailMessage_Render(t *testing.T) {
	tests := []struct {
		name     string
		msg      EmailMessage
		want     string
		contains []string
		wantErr  bool
	}{
		{name: "plain body", msg: EmailMessage{BodyStr: "hi there"}, want: "hi there"},
		{name: "no content", msg: EmailMessage{}},
		{
			name: "approved",
			msg: EmailMessage{
				TemplateName: "request_approved",
				TemplateData: map[string]interface{}{"StudentName": "Ada", "ProjectTitle": "Bridge"},
			},
			contains: []string{"Hello Ada,", `project "Bridge" has been approved`, "Placement"},
		},
		{
			name: "rejected",
			msg: EmailMessage{
				TemplateName: "request_rejected",
				TemplateData: map[string]interface{}{"StudentName": "", "ProjectTitle": "Bridge"},
			},
			contains: []string{"Hello,", `project "Bridge" has been rejected`},
		},
		{name: "unknown template", msg: EmailMessage{TemplateName: "nope"}, wantErr: true},
		{
			name:    "missing data",
			msg:     EmailMessage{TemplateName: "request_approved", TemplateData: map[string]interface{}{}},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.msg.Render("Placement")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.contains == nil {
				assert.Equal(t, tt.want, tt.msg.TextContent)
			}
			for _, s := range tt.contains {
				assert.Contains(t, tt.msg.TextContent, s)
			}
		})
	}
}
