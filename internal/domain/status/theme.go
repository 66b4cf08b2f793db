package status

// Color is a theme color token understood by the front ends.
type Color string

// Icon is a theme icon token understood by the front ends.
type Icon string

const (
	ColorEmerald Color = "emerald"
	ColorRed     Color = "red"
	ColorAmber   Color = "amber"
	ColorOrange  Color = "orange"
	ColorBlue    Color = "blue"
	ColorSky     Color = "sky"
	ColorIndigo  Color = "indigo"
	ColorPurple  Color = "purple"
	ColorRose    Color = "rose"
	ColorSlate   Color = "slate"
)

const (
	IconCheckCircle   Icon = "check-circle"
	IconXCircle       Icon = "x-circle"
	IconClock         Icon = "clock"
	IconAlertTriangle Icon = "alert-triangle"
	IconCalendar      Icon = "calendar"
	IconSend          Icon = "send"
	IconAward         Icon = "award"
	IconFileText      Icon = "file-text"
)

// Theme is the presentation token attached to a normalized status
type Theme struct {
	Color Color `json:"color"`
	Icon  Icon  `json:"icon"`
}

// FallbackTheme is used for any value outside the known enumerations
var FallbackTheme = Theme{Color: ColorSlate, Icon: IconFileText}
