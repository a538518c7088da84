package engine

import "github.com/Daniel-Kats256/simulations/internal/simulations/domain"

// profile fixes the success probability and metric distributions for one
// simulation type. These constants are part of the engine's contract.
type profile struct {
	successProb float64
	metrics     func(delaySec int) map[string]interface{}
}

var profiles = map[domain.SimulationType]profile{
	domain.TypeDDoS: {
		successProb: 0.7,
		metrics: func(delaySec int) map[string]interface{} {
			return map[string]interface{}{
				"requestsPerSecond":  ri(1000, 10000),
				"targetResponseTime": ri(100, 500),
				"successfulBlocks":   ri(20, 80),
				"duration":           delaySec,
				"totalRequests":      ri(10000, 50000),
				"blockedRequests":    ri(8000, 40000),
				"averageLatency":     ri(50, 200),
			}
		},
	},
	domain.TypeMalware: {
		successProb: 0.75,
		metrics: func(delaySec int) map[string]interface{} {
			return map[string]interface{}{
				"detectionRate":  ri(60, 40),
				"filesScanned":   ri(10000, 50000),
				"threatsFound":   ri(1, 5),
				"quarantined":    ri(1, 3),
				"scanDuration":   delaySec,
				"falsePositives": ri(0, 2),
				"systemImpact":   ri(5, 20),
			}
		},
	},
	domain.TypePhishing: {
		successProb: 0.6,
		metrics: func(delaySec int) map[string]interface{} {
			return map[string]interface{}{
				"emailsSent":           ri(50, 100),
				"clickRate":            ri(5, 30),
				"credentialsHarvested": ri(1, 10),
				"detected":             rb(0.4),
				"campaignDuration":     delaySec,
				"targetsReached":       ri(100, 200),
				"securityAlerts":       ri(5, 15),
			}
		},
	},
	domain.TypeRansomware: {
		successProb: 0.8,
		metrics: func(delaySec int) map[string]interface{} {
			return map[string]interface{}{
				"filesEncrypted":   ri(100, 1000),
				"encryptionTime":   ri(5, 30),
				"detectionTime":    ri(10, 60),
				"recoveryPossible": rb(0.7),
				"ransomDemand":     ri(10000, 50000),
				"affectedSystems":  ri(1, 10),
				"backupStatus":     rb(0.3),
			}
		},
	},
	domain.TypeSQLInjection: {
		successProb: 0.65,
		metrics: func(delaySec int) map[string]interface{} {
			return map[string]interface{}{
				"queriesAttempted":    ri(5, 20),
				"successful":          ri(1, 8),
				"dataExfiltrated":     ri(100, 1000),
				"blocked":             rb(0.5),
				"attackDuration":      delaySec,
				"vulnerableEndpoints": ri(1, 5),
				"securityPatches":     ri(0, 3),
			}
		},
	},
}
