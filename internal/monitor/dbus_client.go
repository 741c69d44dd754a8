package monitor

import (
	"context"
	"strings"

	"github.com/godbus/dbus/v5"
)

// DBusClient is the slice of the session bus the provider talks to:
// signal subscription, player discovery and property reads.
//
//go:generate mockgen -destination=mocks/dbus_client_mock.go -package=mocks github.com/genricoloni/decksync/internal/monitor DBusClient
type DBusClient interface {
	Close() error

	// AddMatchSignal subscribes to NameOwnerChanged and PropertiesChanged
	AddMatchSignal(options ...dbus.MatchOption) error
	Signal(ch chan<- *dbus.Signal)

	// ListNames and GetNameOwner seed the player list at connect time.
	// Signals carry unique names (":1.42"), so owners are resolved up front.
	ListNames() ([]string, error)
	GetNameOwner(name string) (string, error)

	// GetProperty reads one qualified property, e.g.
	// "org.mpris.MediaPlayer2.Player.PlaybackStatus" on /org/mpris/MediaPlayer2
	// of "org.mpris.MediaPlayer2.vlc". The call is bounded by ctx.
	GetProperty(ctx context.Context, player, path, prop string) (dbus.Variant, error)
}

// StdDBusClient talks to the user's session bus
type StdDBusClient struct {
	conn *dbus.Conn
}

// NewStdDBusClient creates a real D-Bus client connected to the session bus.
// The connection is private so closing it does not affect other users of the bus.
func NewStdDBusClient() (*StdDBusClient, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, err
	}
	return &StdDBusClient{conn: conn}, nil
}

// Close closes the session bus connection
func (c *StdDBusClient) Close() error {
	return c.conn.Close()
}

// AddMatchSignal adds a signal match rule
func (c *StdDBusClient) AddMatchSignal(options ...dbus.MatchOption) error {
	return c.conn.AddMatchSignal(options...)
}

// Signal registers a channel to receive D-Bus signals
func (c *StdDBusClient) Signal(ch chan<- *dbus.Signal) {
	c.conn.Signal(ch)
}

// ListNames returns all names on the bus
func (c *StdDBusClient) ListNames() ([]string, error) {
	var names []string
	err := c.conn.BusObject().Call("org.freedesktop.DBus.ListNames", 0).Store(&names)
	return names, err
}

// GetNameOwner returns the unique name that owns the given well-known name
func (c *StdDBusClient) GetNameOwner(name string) (string, error) {
	var owner string
	err := c.conn.BusObject().Call("org.freedesktop.DBus.GetNameOwner", 0, name).Store(&owner)
	return owner, err
}

// GetProperty splits prop at its last dot into interface and member and
// issues Properties.Get
func (c *StdDBusClient) GetProperty(ctx context.Context, player, path, prop string) (dbus.Variant, error) {
	iface, name := prop, ""
	if i := strings.LastIndexByte(prop, '.'); i >= 0 {
		iface, name = prop[:i], prop[i+1:]
	}

	var v dbus.Variant
	obj := c.conn.Object(player, dbus.ObjectPath(path))
	err := obj.CallWithContext(ctx, "org.freedesktop.DBus.Properties.Get", 0, iface, name).Store(&v)
	return v, err
}
