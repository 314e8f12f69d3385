package syncclient

// TransportPreference expresses a caller's preferred channel for reaching
// the desktop counterpart.
type TransportPreference int

const (
	BleFirst TransportPreference = iota
	TcpLan
	Auto
)

// ConnectionStrategy is the resolved plan DetermineConnectionStrategy
// produces from a TransportPreference and the channels actually available.
type ConnectionStrategy struct {
	Transport       TransportPreference
	DesktopAddress  string
	BLEDeviceID     string
	ShouldUseTCP    bool
}

// DetermineConnectionStrategy resolves which transport to use given a
// preference and the channels currently available.
func DetermineConnectionStrategy(preference TransportPreference, bleDeviceAvailable bool, lanAddress string) ConnectionStrategy {
	switch preference {
	case BleFirst:
		return ConnectionStrategy{
			Transport:      BleFirst,
			DesktopAddress: lanAddress,
			ShouldUseTCP:   !bleDeviceAvailable,
		}
	case TcpLan:
		return ConnectionStrategy{
			Transport:      TcpLan,
			DesktopAddress: lanAddress,
			ShouldUseTCP:   true,
		}
	default: // Auto
		if bleDeviceAvailable && lanAddress != "" {
			return ConnectionStrategy{Transport: Auto, DesktopAddress: lanAddress, ShouldUseTCP: true}
		}
		if lanAddress != "" {
			return ConnectionStrategy{Transport: TcpLan, DesktopAddress: lanAddress, ShouldUseTCP: true}
		}
		return ConnectionStrategy{Transport: BleFirst, DesktopAddress: "", ShouldUseTCP: false}
	}
}
