package netfile

import "github.com/google/uuid"

// HostUUID returns the name-based UUID brokers derive from their DNS name.
// Channel keys in the network file are these UUIDs.
func HostUUID(host string) string {
	return uuid.NewSHA1(uuid.NameSpaceDNS, []byte(host)).String()
}
