package helpers

import "github.com/dudedrops/dudes-api/internal/constants"

// IsValidStage checks if the provided stage string is one of the deployment stages.
func IsValidStage(stage string) bool {
	switch stage {
	case constants.ProdEnvironment, constants.DevEnvironment, constants.LocalEnvironment:
		return true
	default:
		return false
	}
}
