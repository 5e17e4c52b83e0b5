package browser

import (
	"testing"

	"github.com/chromedp/cdproto/runtime"
	"github.com/stretchr/testify/assert"
)

func TestDecodeRemoteString(t *testing.T) {
	tests := []struct {
		name    string
		obj     *runtime.RemoteObject
		want    string
		wantErr bool
	}{
		{"string value", &runtime.RemoteObject{Type: runtime.TypeString, Value: []byte(`"ok"`)}, "ok", false},
		{"null value", &runtime.RemoteObject{Type: runtime.TypeObject, Value: []byte(`null`)}, "", false},
		{"nil object", nil, "", false},
		{"undefined has no value", &runtime.RemoteObject{Type: runtime.TypeUndefined}, "", false},
		{"non-string value", &runtime.RemoteObject{Type: runtime.TypeNumber, Value: []byte(`42`)}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeRemoteString(tt.obj)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
