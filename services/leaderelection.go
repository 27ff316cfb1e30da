package services

import (
	"log/slog"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/attendee-dev/attendee/shared"
	"github.com/google/uuid"
)

const leaderElectionConfigKey = "leaderElection"

// a leader claim goes stale after this many seconds without a heartbeat
const leaderLeaseSeconds = 360

type leaderElectionConfig struct {
	LeaderID string `json:"leaderId"`
	LastPing int64  `json:"lastPing"`
}

type databaseLeaderElector struct {
	leaderElectorID string
	configService   shared.ConfigService
	isLeader        atomic.Bool // this variable gets updated by a daemon goroutine. Usage of atomic is required.
}

// NewDatabaseLeaderElector elects a single instance through a heartbeat row
// in the config table. Only the leader runs the periodic scheduler, the
// task runners are active on every instance.
func NewDatabaseLeaderElector(configService shared.ConfigService) *databaseLeaderElector {
	leaderElector := databaseLeaderElector{
		configService: configService,
		// generate a random ID for this instance
		leaderElectorID: uuid.New().String(),
	}
	go leaderElector.daemon()
	return &leaderElector
}

func randomNumberBetween(min, max int) int {
	return rand.Intn(max-min) + min // #nosec
}

func (e *databaseLeaderElector) daemon() {
	for {
		isLeader, err := e.checkIfLeader()
		if err != nil {
			slog.Error("could not check if leader", "err", err)
		}

		e.isLeader.Store(isLeader)

		time.Sleep(time.Duration(randomNumberBetween(60, 359)) * time.Second)
	}
}

func (e *databaseLeaderElector) IsLeader() bool {
	return e.isLeader.Load()
}

func (e *databaseLeaderElector) claimLeadership() error {
	return e.configService.SetJSONConfig(leaderElectionConfigKey, leaderElectionConfig{
		LeaderID: e.leaderElectorID,
		LastPing: time.Now().Unix(),
	})
}

func (e *databaseLeaderElector) checkIfLeader() (bool, error) {
	var config leaderElectionConfig

	err := e.configService.GetJSONConfig(leaderElectionConfigKey, &config)
	if err != nil {
		slog.Info("could not get leader election config", "err", err)
		// there is no leader yet - claim it.
		return true, e.claimLeadership()
	}

	// the previous leader stopped pinging - take over.
	if time.Now().Unix()-config.LastPing > leaderLeaseSeconds {
		return true, e.claimLeadership()
	}

	if config.LeaderID == e.leaderElectorID {
		// still the leader, refresh the heartbeat so nobody takes over.
		return true, e.claimLeadership()
	}

	return false, nil
}
