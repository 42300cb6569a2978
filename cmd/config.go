package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"tutam/internal/core/domain/model/kernel"
	"tutam/internal/jobs"
)

// Config carries everything the process needs from the environment: the HTTP
// port, database coordinates, solver endpoint, push credentials, and the
// scheduling constants the domain services are built from.
type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	SolverBaseURL string
	SolverAPIKey  string

	// FCMCredentialsFile is the service account file for push delivery.
	// Empty disables the push sink; the websocket hub still works.
	FCMCredentialsFile string

	// RescheduleCron is the spec for the periodic scheduling pass.
	RescheduleCron string

	// Branches lists the branches the reschedule job sweeps, encoded as
	// "id@lat,lon;id@lat,lon".
	Branches string

	MinWindowOverlap       time.Duration
	SolverPageSize         int
	VehicleCapacityPercent float64
	MaxFleetSize           int
	ProposedFleetSize      int
	MaxHoursPerRoute       time.Duration
	SpeedFactor            float64
	ServiceDuration        time.Duration
	MinVolumePercent       float64
	MaxVolumePercent       float64
	UrgencyHorizon         time.Duration
}

// DSN renders the postgres connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// BranchTargets parses the Branches list into reschedule sweep targets.
func (c Config) BranchTargets() ([]jobs.BranchTarget, error) {
	if strings.TrimSpace(c.Branches) == "" {
		return nil, nil
	}

	entries := strings.Split(c.Branches, ";")
	targets := make([]jobs.BranchTarget, 0, len(entries))
	for _, entry := range entries {
		target, err := parseBranchTarget(entry)
		if err != nil {
			return nil, fmt.Errorf("parsing branch entry %q: %w", entry, err)
		}
		targets = append(targets, target)
	}
	return targets, nil
}

func parseBranchTarget(entry string) (jobs.BranchTarget, error) {
	idPart, coordPart, found := strings.Cut(strings.TrimSpace(entry), "@")
	if !found {
		return jobs.BranchTarget{}, fmt.Errorf("missing '@' separator")
	}

	branchID, err := kernel.UUIDFromString(idPart)
	if err != nil {
		return jobs.BranchTarget{}, err
	}

	latPart, lonPart, found := strings.Cut(coordPart, ",")
	if !found {
		return jobs.BranchTarget{}, fmt.Errorf("missing ',' separator")
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(latPart), 64)
	if err != nil {
		return jobs.BranchTarget{}, err
	}

	lon, err := strconv.ParseFloat(strings.TrimSpace(lonPart), 64)
	if err != nil {
		return jobs.BranchTarget{}, err
	}

	location, err := kernel.NewGeoLocation(lat, lon)
	if err != nil {
		return jobs.BranchTarget{}, err
	}

	return jobs.BranchTarget{BranchID: branchID, Location: location}, nil
}
