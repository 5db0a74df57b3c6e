package partners

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaRejectsShortNames(t *testing.T) {
	schema := NewSchema()
	form := schema.Apply(Form{FirstName: " J ", LastName: "D", Email: "jane@example.com", PhoneNumber: "1"})

	errs := schema.Validate(form)
	assert.Equal(t, "First name must be at least 2 characters", errs["first_name"])
	assert.Equal(t, "Last name must be at least 2 characters", errs["last_name"])
	assert.NotContains(t, errs, "email")
}

func TestSchemaRequiresContactDetails(t *testing.T) {
	schema := NewSchema()
	errs := schema.Validate(schema.Apply(Form{FirstName: "Jane", LastName: "Doe", Email: "nope"}))
	assert.Equal(t, "Invalid email address", errs["email"])
	assert.Equal(t, "Phone number is required", errs["phone_number"])
}

func TestSchemaDefaultsActive(t *testing.T) {
	form := NewSchema().Apply(Form{FirstName: "Jane"})
	require.NotNil(t, form.IsActive)
	assert.True(t, *form.IsActive)
	assert.True(t, Form{}.Active())

	inactive := false
	assert.False(t, NewSchema().Apply(Form{IsActive: &inactive}).Active())
}

func TestDecodeAndValuesRoundTrip(t *testing.T) {
	p := Partner{ID: "p1", FirstName: "Jane", LastName: "Doe", Email: "jane@example.com", PhoneNumber: "555", IsActive: false}
	form := Decode(Values(p))
	assert.Equal(t, "Jane", form.FirstName)
	assert.Equal(t, "555", form.PhoneNumber)
	require.NotNil(t, form.IsActive)
	assert.False(t, *form.IsActive)

	assert.Nil(t, Decode(url.Values{"first_name": {"  Jo  "}}).IsActive)
	assert.Equal(t, "Jo", Decode(url.Values{"first_name": {"  Jo  "}}).FirstName)
}

func TestPartnerRecord(t *testing.T) {
	created := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	p := Partner{ID: "p1", FirstName: "Jane", LastName: "Doe", IsActive: true, CreatedAt: created}
	assert.Equal(t, "p1", p.RecordID())
	assert.Equal(t, "Jane Doe", p.SearchText())
	assert.Equal(t, true, p.Field("is_active"))
	assert.Equal(t, created, p.Field("created_at"))
	assert.Nil(t, p.Field("unknown"))
}

func TestDefinitionDetails(t *testing.T) {
	def := Definition()
	assert.Equal(t, "/channel-partners", def.Path)
	assert.Equal(t, Entity, def.Entity)

	rows := def.Details(Partner{FirstName: "Jane", IsActive: true}, nil)
	require.Len(t, rows, 6)
	assert.Equal(t, "Yes", rows[4].Value)
	assert.True(t, rows[4].BadgeOK)
	assert.Empty(t, rows[5].Value)
}
