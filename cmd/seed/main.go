// seed inserts a handful of roles, employees, shift templates and a default
// optimization configuration into the local dev database.
// Run: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/shiftsched/scheduler/internal/domain"
	"github.com/shiftsched/scheduler/internal/infrastructure/postgres"
	"github.com/shiftsched/scheduler/internal/security"
)

type employeeSpec struct {
	fullName       string
	email          string
	password       string
	isManager      bool
	maxWeeklyHours float64
	roles          []string // role names this employee is qualified for
}

func main() {
	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set — run: direnv allow")
	}

	pool, err := postgres.NewPool(ctx, dbURL)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	roleRepo := postgres.NewRoleRepository(pool)
	employeeRepo := postgres.NewEmployeeRepository(pool)
	shiftTemplateRepo := postgres.NewShiftTemplateRepository(pool)
	constraintRepo := postgres.NewConstraintRepository(pool)
	optConfigRepo := postgres.NewOptimizationConfigurationRepository(pool)

	roleNames := []string{"Cashier", "Cook", "Shift Lead"}
	roleIDs := make(map[string]string, len(roleNames))
	for _, name := range roleNames {
		r, err := roleRepo.Create(ctx, &domain.Role{Name: name})
		if err != nil {
			log.Fatalf("create role %s: %v", name, err)
		}
		roleIDs[name] = r.ID
	}

	employees := []employeeSpec{
		{"Alice Manager", "alice@shiftsched.dev", "password123", true, 40, []string{"Shift Lead"}},
		{"Bob Cashier", "bob@shiftsched.dev", "password123", false, 35, []string{"Cashier"}},
		{"Carol Cook", "carol@shiftsched.dev", "password123", false, 40, []string{"Cook"}},
		{"Dan Cashier", "dan@shiftsched.dev", "password123", false, 30, []string{"Cashier"}},
		{"Erin Allrounder", "erin@shiftsched.dev", "password123", false, 40, []string{"Cashier", "Cook"}},
	}

	var created int
	for _, spec := range employees {
		hashed, err := security.HashPassword(spec.password)
		if err != nil {
			log.Fatalf("hash password for %s: %v", spec.email, err)
		}

		e, err := employeeRepo.Create(ctx, &domain.Employee{
			FullName:       spec.fullName,
			Email:          spec.email,
			IsManager:      spec.isManager,
			MaxWeeklyHours: spec.maxWeeklyHours,
			Active:         true,
		})
		if err != nil {
			log.Fatalf("create employee %s: %v", spec.email, err)
		}
		created++

		if _, err := pool.Exec(ctx,
			`UPDATE employees SET hashed_password = $1 WHERE id = $2`,
			hashed, e.ID,
		); err != nil {
			log.Fatalf("set password for %s: %v", spec.email, err)
		}

		for _, roleName := range spec.roles {
			roleID, ok := roleIDs[roleName]
			if !ok {
				log.Fatalf("unknown role %q for employee %s", roleName, spec.email)
			}
			if _, err := pool.Exec(ctx,
				`INSERT INTO employee_roles (employee_id, role_id) VALUES ($1, $2)
				 ON CONFLICT DO NOTHING`,
				e.ID, roleID,
			); err != nil {
				log.Fatalf("assign role %s to %s: %v", roleName, spec.email, err)
			}
		}
	}

	templates := []*domain.ShiftTemplate{
		{
			Name:           "Morning Cashier",
			StartTimeOfDay: 8 * time.Hour, EndTimeOfDay: 16 * time.Hour,
			Demands: []domain.ShiftRoleDemand{{RoleID: roleIDs["Cashier"], RequiredCount: 2}},
		},
		{
			Name:           "Evening Floor",
			StartTimeOfDay: 16 * time.Hour, EndTimeOfDay: 23 * time.Hour,
			// Needs a cashier and a shift lead on the floor at the same time —
			// exercises the multi-role-per-shift demand multiset.
			Demands: []domain.ShiftRoleDemand{
				{RoleID: roleIDs["Cashier"], RequiredCount: 2},
				{RoleID: roleIDs["Shift Lead"], RequiredCount: 1},
			},
		},
		{
			Name:           "Morning Cook",
			StartTimeOfDay: 7 * time.Hour, EndTimeOfDay: 15 * time.Hour,
			Demands: []domain.ShiftRoleDemand{{RoleID: roleIDs["Cook"], RequiredCount: 1}},
		},
		{
			Name:           "Overnight Lead",
			StartTimeOfDay: 22 * time.Hour, EndTimeOfDay: 6 * time.Hour,
			Demands: []domain.ShiftRoleDemand{{RoleID: roleIDs["Shift Lead"], RequiredCount: 1}},
		},
	}
	for _, t := range templates {
		if _, err := shiftTemplateRepo.Create(ctx, t); err != nil {
			log.Fatalf("create shift template %s: %v", t.Name, err)
		}
	}

	constraints := []*domain.SystemConstraint{
		{Key: domain.ConstraintMaxHoursPerWeek, Value: 40, Hard: true},
		{Key: domain.ConstraintMinRestHours, Value: 10, Hard: true},
		{Key: domain.ConstraintMaxConsecutiveDays, Value: 6, Hard: false},
		{Key: domain.ConstraintMinShiftsPerWeek, Value: 2, Hard: false},
	}
	for _, c := range constraints {
		if _, err := constraintRepo.Upsert(ctx, c); err != nil {
			log.Fatalf("upsert constraint %s: %v", c.Key, err)
		}
	}

	defaultConfig := domain.DefaultOptimizationConfiguration()
	if _, err := optConfigRepo.Create(ctx, &defaultConfig); err != nil {
		log.Fatalf("create default optimization configuration: %v", err)
	}

	fmt.Println("Seed complete")
	fmt.Println()
	fmt.Printf("  Roles created:       %d\n", len(roleNames))
	fmt.Printf("  Employees created:   %d\n", created)
	fmt.Printf("  Shift templates:     %d\n", len(templates))
	fmt.Printf("  System constraints:  %d\n", len(constraints))
	fmt.Println()
	fmt.Println("How to test:")
	fmt.Println()
	fmt.Println("  Step 1 — log in as the seeded manager:")
	fmt.Println()
	fmt.Println(`    curl -s -X POST http://localhost:8080/auth/login \`)
	fmt.Println(`      -H "Content-Type: application/json" \`)
	fmt.Println(`      -d '{"email":"alice@shiftsched.dev","password":"password123"}'`)
	fmt.Println()
	fmt.Println("  Step 2 — create a weekly schedule and trigger optimization:")
	fmt.Println()
	fmt.Println(`    export JWT=eyJ...`)
	fmt.Println(`    curl -s -X POST http://localhost:8080/weekly-schedules \`)
	fmt.Println(`      -H "Authorization: Bearer $JWT" -H "Content-Type: application/json" \`)
	fmt.Println(`      -d '{"week_start_date":"2026-08-03"}'`)
	fmt.Println()
}
