// Package vallocal talks to a locally running VALORANT client.
//
// It provides two independent pieces:
//   - Connect authenticates with the client's local control API using the
//     lockfile secrets and exposes the remote match, history and rank APIs.
//   - LogStream tails the client's live log and publishes gameplay events
//     (round ended, match ended, player died, bomb interaction, gameplay
//     started) to any number of subscribers.
//
// # Log events
//
//	ctx, cancel := context.WithCancel(context.Background())
//	defer cancel()
//
//	stream := vallocal.NewLogStream()
//	sub := stream.Subscribe()
//	if err := stream.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer stream.Close()
//
//	for ev := range sub.Events() {
//	    switch ev.Type {
//	    case vallocal.EventRoundEnded:
//	        fmt.Printf("round %d ended\n", ev.Round)
//	    case vallocal.EventMatchEnded:
//	        fmt.Printf("%s won\n", ev.WinningTeam)
//	    }
//	}
//
// Subscribers each get a bounded queue. A subscriber that falls behind
// loses the newest events rather than slowing the stream; see
// Subscription.Dropped.
//
// # Remote API
//
//	client, err := vallocal.Connect(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	player, err := client.CoregamePlayer(ctx, client.Session().PlayerID)
//	if errors.Is(err, vallocal.ErrNotInMatch) {
//	    fmt.Println("in the menus")
//	}
//
// # Platform Support
//
// The game runs on Windows, where lockfile and log paths are auto-detected.
// Explicit paths and the VALLOCAL_LOCKFILE and VALLOCAL_LOGFILE
// environment variables work on every platform.
//
// # Disclaimer
//
// This is an unofficial tool and is not affiliated with Riot Games.
package vallocal
