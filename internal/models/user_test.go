package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNotificationSettingsAllows(t *testing.T) {
	settings := NotificationSettings{
		Likes:        false,
		Comments:     true,
		Messages:     false,
		Publications: true,
		Employees:    false,
	}

	require.False(t, settings.Allows(NotificationTypeLike))
	require.True(t, settings.Allows(NotificationTypeComment))
	require.False(t, settings.Allows(NotificationTypeMessage))
	require.True(t, settings.Allows(NotificationTypePublication))
	require.False(t, settings.Allows(NotificationTypeEmployeeCreated))

	// System and unknown categories are never suppressed.
	require.True(t, settings.Allows(NotificationTypeSystem))
	require.True(t, settings.Allows("something_else"))
}

func TestUserToCompactOmitsSensitiveFields(t *testing.T) {
	user := User{
		ID:           3,
		Name:         "Dana",
		Email:        "dana@example.com",
		Password:     "hashed",
		FCMToken:     "secret-token",
		ProfileImage: "https://example.com/p.png",
	}

	compact := user.ToCompact()
	require.Equal(t, uint(3), compact.ID)
	require.Equal(t, "Dana", compact.Name)
	require.Equal(t, "dana@example.com", compact.Email)
	require.Equal(t, "https://example.com/p.png", compact.ProfileImage)
}
