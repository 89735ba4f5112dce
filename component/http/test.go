package http

import "github.com/nuts-foundation/hdsi-querytool/lib/netutil"

// TestConfig returns a configuration with both interfaces on free localhost ports.
func TestConfig() (Config, error) {
	publicAddress, err := netutil.FreeLocalAddress()
	if err != nil {
		return Config{}, err
	}
	internalAddress, err := netutil.FreeLocalAddress()
	if err != nil {
		return Config{}, err
	}
	return Config{
		PublicInterface: InterfaceConfig{
			Listener: publicAddress,
			BaseURL:  "http://" + publicAddress,
		},
		InternalInterface: InterfaceConfig{
			Listener: internalAddress,
			BaseURL:  "http://" + internalAddress,
		},
	}, nil
}
