// Package cluster builds base URLs for the local control API and the remote
// player-data, lobby and shared clusters.
package cluster

import (
	"strconv"

	"github.com/vallocal/vallocal-go/internal/lockfile"
)

// LocalBase returns the base URL of the local control API, for example
// "https://127.0.0.1:54321".
func LocalBase(creds lockfile.Credentials) string {
	return creds.Transport + "://127.0.0.1:" + strconv.Itoa(int(creds.Port))
}

// ProfileBase returns the player-data (PD) cluster base URL for shard.
func ProfileBase(shard string) string {
	return "https://pd." + shard + ".a.pvp.net"
}

// LobbyBase returns the game-lobby (GLZ) cluster base URL.
func LobbyBase(region, shard string) string {
	return "https://glz-" + region + "-1." + shard + ".a.pvp.net"
}

// SharedBase returns the shared cluster base URL for shard.
func SharedBase(shard string) string {
	return "https://shared." + shard + ".a.pvp.net"
}
