package netutil

import (
	"net"
	"strconv"
)

// FreeTCPPort asks the kernel for a free open port that is ready to use.
func FreeTCPPort() (port int, err error) {
	a, err := net.ResolveTCPAddr("tcp", "localhost:0")
	if err != nil {
		return 0, err
	}
	l, err := net.ListenTCP("tcp", a)
	if err != nil {
		return 0, err
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}

// FreeLocalAddress returns a localhost address on a free TCP port, e.g. "localhost:53211".
func FreeLocalAddress() (string, error) {
	port, err := FreeTCPPort()
	if err != nil {
		return "", err
	}
	return net.JoinHostPort("localhost", strconv.Itoa(port)), nil
}
