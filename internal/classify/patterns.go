package classify

// Marker substrings identifying each event signature in ShooterGame.log.
const (
	// "AShooterGameState::OnRoundEnded for round '7'"
	roundEndedMarker = "AShooterGameState::OnRoundEnded for round"
	roundOpen        = "round '"

	// "Match Ended: Completion State: 'Completed', Winning Team: 'Red'"
	matchEndedMarker = "Match Ended: Completion State"
	winningTeamLabel = "Winning Team:"
	winningTeamOpen  = "Winning Team: '"

	// Death is the post-death player controller acknowledging its new pawn.
	// Lines mentioning PrevPawn are the respawn side of the same handshake.
	postDeathMarker    = "_PostDeath_PC"
	acknowledgeMarker  = "AcknowledgePawn"
	clientRestartMark  = "ClientRestart_Implementation"
	previousPawnMarker = "PrevPawn"

	// "InternalOnActiveGameplayEffectAdded Sova_PC_C ... BombInteractionBuff_C"
	bombBuffMarker    = "BombInteractionBuff_C"
	effectAddedMarker = "InternalOnActiveGameplayEffectAdded "

	// "Gameplay started at local time 0.000000 (server time 0.000000)"
	gameplayStartedMarker = "Gameplay started at local time 0."

	quote = "'"
)

// unknownTeam is reported when a match-ended line carries no winner.
const unknownTeam = "unknown"
