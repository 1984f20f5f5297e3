package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"

	"github.com/iliyamo/restaurant-reservations/internal/model"
	"github.com/iliyamo/restaurant-reservations/internal/repository"
)

//go:embed seeds/*.yaml
var seedsFS embed.FS

// SeedFS returns the embedded seed fixtures.
func SeedFS() fs.FS {
	sub, _ := fs.Sub(seedsFS, "seeds")
	return sub
}

type reservationFixture struct {
	FirstName    string `yaml:"first_name"`
	LastName     string `yaml:"last_name"`
	MobileNumber string `yaml:"mobile_number"`
	Date         string `yaml:"reservation_date"`
	Time         string `yaml:"reservation_time"`
	People       int    `yaml:"people"`
	Status       string `yaml:"status"`
}

type tableFixture struct {
	Name     string `yaml:"table_name"`
	Capacity int    `yaml:"capacity"`
}

// SeedResult counts the rows inserted by Seed.
type SeedResult struct {
	Reservations int
	Tables       int
}

// Seed replaces the contents of both tables with the fixtures found in
// fsys (reservations.yaml and tables.yaml). Everything runs in one
// transaction.
func Seed(ctx context.Context, db *sql.DB, fsys fs.FS) (SeedResult, error) {
	var (
		res struct {
			Reservations []reservationFixture `yaml:"reservations"`
		}
		tbl struct {
			Tables []tableFixture `yaml:"tables"`
		}
		out SeedResult
	)
	if err := readYAML(fsys, "reservations.yaml", &res); err != nil {
		return out, err
	}
	if err := readYAML(fsys, "tables.yaml", &tbl); err != nil {
		return out, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return out, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Tables first: their foreign key points at reservations.
	for _, q := range []string{"DELETE FROM `tables`", "DELETE FROM reservations"} {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			return out, fmt.Errorf("clear: %w", err)
		}
	}

	reservations := repository.NewReservationRepo(tx)
	for _, f := range res.Reservations {
		status := model.Status(f.Status)
		if status == "" {
			status = model.StatusBooked
		}
		if !status.Valid() {
			return out, fmt.Errorf("seed reservation %s %s: unknown status %q", f.FirstName, f.LastName, f.Status)
		}
		r := &model.Reservation{
			FirstName:    f.FirstName,
			LastName:     f.LastName,
			MobileNumber: f.MobileNumber,
			Date:         f.Date,
			Time:         f.Time,
			People:       f.People,
			Status:       status,
		}
		if err := reservations.Create(ctx, r); err != nil {
			return out, fmt.Errorf("seed reservation %s %s: %w", f.FirstName, f.LastName, err)
		}
		out.Reservations++
	}

	tables := repository.NewTableRepo(tx)
	for _, f := range tbl.Tables {
		if err := tables.Create(ctx, &model.Table{Name: f.Name, Capacity: f.Capacity}); err != nil {
			return out, fmt.Errorf("seed table %s: %w", f.Name, err)
		}
		out.Tables++
	}

	if err := tx.Commit(); err != nil {
		return SeedResult{}, err
	}
	committed = true
	return out, nil
}

func readYAML(fsys fs.FS, name string, v any) error {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}
