package craftlist_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/craftlist/craft-list/pkg/craftlist"
)

func TestRoleValidation(t *testing.T) {
	assert.True(t, craftlist.RoleUser.IsValid())
	assert.True(t, craftlist.RoleAdmin.IsValid())
	assert.False(t, craftlist.Role("moderator").IsValid())
	assert.False(t, craftlist.Role("").IsValid())
	assert.False(t, craftlist.Role("Admin").IsValid())
}

func TestParseRole(t *testing.T) {
	role, err := craftlist.ParseRole("admin")
	require.NoError(t, err)
	assert.Equal(t, craftlist.RoleAdmin, role)

	_, err = craftlist.ParseRole("owner")
	var ve *craftlist.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "role", ve.Field)
}

func TestTicketStatusValidation(t *testing.T) {
	assert.True(t, craftlist.TicketStatusOpen.IsValid())
	assert.True(t, craftlist.TicketStatusClosed.IsValid())
	assert.False(t, craftlist.TicketStatus("pending").IsValid())
}

func TestBannerPositionValidation(t *testing.T) {
	for _, p := range []craftlist.BannerPosition{
		craftlist.BannerPositionHeader,
		craftlist.BannerPositionSidebar,
		craftlist.BannerPositionFooter,
	} {
		assert.True(t, p.IsValid(), string(p))
	}
	assert.False(t, craftlist.BannerPosition("popup").IsValid())

	_, err := craftlist.ParseBannerPosition("popup")
	assert.Error(t, err)
}

func TestDefaultSettings(t *testing.T) {
	settings := craftlist.DefaultSettings()
	assert.Equal(t, "Craft List", settings.SiteName)
	assert.NotEmpty(t, settings.PrimaryColor)
	assert.NotNil(t, settings.SocialLinks)
}
