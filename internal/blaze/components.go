// Package blaze holds the wire-level constants shared by every Blaze
// server: component/command identifiers and the server error taxonomy.
package blaze

// Component identifiers (spec.md §6).
const (
	ComponentAuthentication uint16 = 0x0001
	ComponentGameManager    uint16 = 0x0004
	ComponentStats          uint16 = 0x0007
	ComponentUtil           uint16 = 0x0009
	ComponentUserSessions   uint16 = 0x0019
	ComponentRedirector     uint16 = 0x0005
)

// Authentication commands.
const (
	CmdLogin                 uint16 = 0x14
	CmdSilentLogin           uint16 = 0x20
	CmdOriginLogin           uint16 = 0x0A
	CmdLogout                uint16 = 0x07
	CmdListUserEntitlements2 uint16 = 0x1D
	CmdCreateAccount         uint16 = 0x12
)

// GameManager commands.
const (
	CmdCreateGame        uint16 = 0x01
	CmdDestroyGame       uint16 = 0x05
	CmdAdvanceGameState  uint16 = 0x03
	CmdSetGameAttributes uint16 = 0x07
	CmdRemovePlayer      uint16 = 0x0B
	CmdStartMatchmaking  uint16 = 0x13
	CmdCancelMatchmaking uint16 = 0x14
	CmdJoinGame          uint16 = 0x09
)

// UserSessions commands.
const (
	CmdUpdateNetworkInfo    uint16 = 0x14
	CmdUpdateHardwareFlags  uint16 = 0x08
	CmdResumeSession        uint16 = 0x04
	CmdSetSession           uint16 = 0x0A
)

// Util commands.
const (
	CmdPreAuth          uint16 = 0x07
	CmdPostAuth         uint16 = 0x08
	CmdPing             uint16 = 0x02
	CmdFetchClientConfig uint16 = 0x01
	CmdUserSettingsLoad uint16 = 0x09
	CmdUserSettingsSave uint16 = 0x0A
)

// Stats commands.
const (
	CmdGetLeaderboard             uint16 = 0x0F
	CmdGetCenteredLeaderboard     uint16 = 0x10
	CmdGetFilteredLeaderboard     uint16 = 0x11
	CmdGetLeaderboardEntityCount  uint16 = 0x14
)

// Redirector commands.
const (
	CmdGetServerInstance uint16 = 0x01
)

// GameManager notifications (server-initiated, qtype=notify).
const (
	NotifyGameSetup           uint16 = 0x01
	NotifyPlayerJoining       uint16 = 0x02
	NotifyPlayerRemoved       uint16 = 0x06
	NotifyGameStateChange     uint16 = 0x08
	NotifyGameAttribChange    uint16 = 0x09
	NotifyHostMigrationStart  uint16 = 0x0D
	NotifyHostMigrationFinish uint16 = 0x0E
	NotifyMatchmakingFailed   uint16 = 0x0F
	NotifyMatchmakingAsyncStatus uint16 = 0x0A
)

// UserSessions notifications.
const (
	NotifyUserSessionSetSession uint16 = 0x01
	NotifyUserSessionUpdated    uint16 = 0x02
)
