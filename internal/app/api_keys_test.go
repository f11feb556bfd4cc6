package app

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"elcmap/internal/appconf"
)

func TestBlankKeyIsInvalid(t *testing.T) {
	app := &Application{
		Config: appconf.Config{
			ApiKeys: []string{"key"},
		},
	}
	assert.True(t, app.IsInvalidAPIKey(""))
}

func TestConfiguredKeyIsValid(t *testing.T) {
	app := &Application{
		Config: appconf.Config{
			ApiKeys: []string{"test", "wsdot.elc.map"},
		},
	}
	assert.False(t, app.IsInvalidAPIKey("test"))
	assert.False(t, app.IsInvalidAPIKey("wsdot.elc.map"))
	assert.True(t, app.IsInvalidAPIKey("tes"))
	assert.True(t, app.IsInvalidAPIKey("TEST"))
}

func TestRequestHasInvalidAPIKey(t *testing.T) {
	app := &Application{Config: appconf.Config{ApiKeys: []string{"test"}}}

	assert.False(t, app.RequestHasInvalidAPIKey(httptest.NewRequest("GET", "/api/routes.json?key=test", nil)))
	assert.True(t, app.RequestHasInvalidAPIKey(httptest.NewRequest("GET", "/api/routes.json?key=nope", nil)))
	assert.True(t, app.RequestHasInvalidAPIKey(httptest.NewRequest("GET", "/api/routes.json", nil)))
}
