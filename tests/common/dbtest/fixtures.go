//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"fitbook/internal/pkg/password"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

const TestPassword = "password123"

var (
	hashOnce     sync.Once
	passwordHash string
	hashErr      error
)

// testPasswordHash hashes TestPassword once per process; bcrypt is slow
// enough that per-fixture hashing would dominate suite runtime.
func testPasswordHash() (string, error) {
	hashOnce.Do(func() {
		passwordHash, hashErr = password.HashPassword(TestPassword)
	})
	return passwordHash, hashErr
}

func DefaultBranchID(t *testing.T, db DBLike) uuid.UUID {
	t.Helper()

	var branchID uuid.UUID
	err := db.QueryRow(context.Background(),
		"SELECT id FROM branches WHERE name = 'Downtown' LIMIT 1").Scan(&branchID)
	require.NoError(t, err)
	return branchID
}

func CreateTestMember(t *testing.T, db DBLike, email, role string) uuid.UUID {
	t.Helper()

	memberID := uuid.New()
	branchID := DefaultBranchID(t, db)

	hash, err := testPasswordHash()
	require.NoError(t, err)

	ctx := context.Background()
	tag, err := db.Exec(ctx,
		`INSERT INTO members (id, branch_id, email, password_hash, full_name, gender, role, is_active)
		 VALUES ($1, $2, $3, $4, $5, 'female', $6, true)
		 ON CONFLICT (email) DO NOTHING`,
		memberID, branchID, email, hash, "Test "+role, role)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		_ = db.QueryRow(ctx, "SELECT id FROM members WHERE email = $1", email).Scan(&memberID)
	}

	return memberID
}

func CreateTestMembership(t *testing.T, db DBLike, memberID uuid.UUID) uuid.UUID {
	t.Helper()

	membershipID := uuid.New()
	_, err := db.Exec(context.Background(),
		`INSERT INTO memberships (id, member_id, status, starts_on, ends_on)
		 VALUES ($1, $2, 'active', now() - interval '30 days', NULL)`,
		membershipID, memberID)
	require.NoError(t, err)
	return membershipID
}

func GrantTestCredits(t *testing.T, db DBLike, memberID uuid.UUID, benefitType string, amount int) uuid.UUID {
	t.Helper()

	creditID := uuid.New()
	_, err := db.Exec(context.Background(),
		`INSERT INTO member_benefit_credits (id, member_id, benefit_type, credits_remaining, granted, expires_at)
		 VALUES ($1, $2, $3, $4, $4, now() + interval '30 days')`,
		creditID, memberID, benefitType, amount)
	require.NoError(t, err)
	return creditID
}

func CreateTestSlot(t *testing.T, db DBLike, startAt time.Time, capacity int) uuid.UUID {
	t.Helper()

	ctx := context.Background()
	branchID := DefaultBranchID(t, db)

	var facilityID uuid.UUID
	var benefitType string
	err := db.QueryRow(ctx,
		"SELECT id, benefit_type FROM facilities WHERE branch_id = $1 AND is_active LIMIT 1",
		branchID).Scan(&facilityID, &benefitType)
	require.NoError(t, err)

	slotID := uuid.New()
	// slot_date is pinned to the UTC calendar day so lookups by formatted
	// date stay stable regardless of the session timezone.
	_, err = db.Exec(ctx,
		`INSERT INTO benefit_slots (id, branch_id, facility_id, benefit_type, slot_date, start_at, end_at, capacity, booked_count, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, true)`,
		slotID, branchID, facilityID, benefitType, startAt.UTC().Format("2006-01-02"),
		startAt.UTC(), startAt.UTC().Add(30*time.Minute), capacity)
	require.NoError(t, err)
	return slotID
}

func CreateTestClass(t *testing.T, db DBLike, title string, scheduledAt time.Time, capacity int) uuid.UUID {
	t.Helper()

	classID := uuid.New()
	branchID := DefaultBranchID(t, db)
	_, err := db.Exec(context.Background(),
		`INSERT INTO classes (id, branch_id, trainer_id, title, scheduled_at, duration_minutes, capacity, is_active)
		 VALUES ($1, $2, NULL, $3, $4, 45, $5, true)`,
		classID, branchID, title, scheduledAt.UTC(), capacity)
	require.NoError(t, err)
	return classID
}

// inserts basic reference data needed by tests
func SeedReferenceData(pool *pgxpool.Pool) error {
	ctx := context.Background()

	_, err := pool.Exec(ctx, `
		INSERT INTO branches (id, name, timezone)
		SELECT gen_random_uuid(), 'Downtown', 'Asia/Riyadh'
		WHERE NOT EXISTS (SELECT 1 FROM branches WHERE name = 'Downtown');
	`)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
		INSERT INTO facilities (id, branch_id, name, benefit_type, gender_access, default_capacity, slot_minutes, open_minute, close_minute, is_active)
		SELECT gen_random_uuid(), b.id, 'Sauna 1', 'sauna', 'any', 4, 30, 360, 1320, true
		FROM branches b
		WHERE b.name = 'Downtown'
		  AND NOT EXISTS (SELECT 1 FROM facilities WHERE name = 'Sauna 1');
	`)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
		INSERT INTO benefit_policies (branch_id, benefit_type, credit_gated, cancel_cutoff_minutes, no_show_policy)
		SELECT b.id, 'sauna', true, 120, 'mark_used'
		FROM branches b
		WHERE b.name = 'Downtown'
		ON CONFLICT (branch_id, benefit_type) DO NOTHING;
	`)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
		INSERT INTO benefit_policies (branch_id, benefit_type, credit_gated, cancel_cutoff_minutes, no_show_policy)
		SELECT b.id, 'class', false, 120, 'mark_used'
		FROM branches b
		WHERE b.name = 'Downtown'
		ON CONFLICT (branch_id, benefit_type) DO NOTHING;
	`)
	return err
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables and reseeds reference data
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return SeedReferenceData(pool)
}
