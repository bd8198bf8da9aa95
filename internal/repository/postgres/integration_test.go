//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/dtroode/userindex/internal/model"
	repo "github.com/dtroode/userindex/internal/repository/postgres"
)

var dsn string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "userindex_test",
			},
			WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		panic(err)
	}
	dsn = fmt.Sprintf("postgres://postgres:password@%s:%s/userindex_test?sslmode=disable", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func TestRepositories(t *testing.T) {
	ctx := context.Background()
	conn, err := repo.NewConnection(ctx, dsn, repo.PoolOptions{MaxConns: 8})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	identities := repo.NewIdentityRepository(conn)
	usernames := repo.NewUsernameRepository(conn)
	statuses := repo.NewStatusRepository(conn)

	t.Run("identity_repository", func(t *testing.T) {
		referrer := model.Principal("referrer-1")
		saved, err := identities.Create(ctx, model.IdentityEntry{Principal: "owner-1", Handle: "inst-1", Referrer: &referrer})
		require.NoError(t, err)
		require.Equal(t, model.InstanceHandle("inst-1"), saved.Handle)

		existing, err := identities.Create(ctx, model.IdentityEntry{Principal: "owner-1", Handle: "inst-9"})
		require.ErrorIs(t, err, model.ErrAlreadyExists)
		require.Equal(t, model.InstanceHandle("inst-1"), existing.Handle)

		_, err = identities.Create(ctx, model.IdentityEntry{Principal: "owner-2", Handle: "inst-1"})
		require.ErrorIs(t, err, model.ErrAlreadyExists)

		got, err := identities.GetByPrincipal(ctx, "owner-1")
		require.NoError(t, err)
		require.NotNil(t, got.Referrer)
		require.Equal(t, referrer, *got.Referrer)

		_, err = identities.GetByPrincipal(ctx, "missing")
		require.ErrorIs(t, err, model.ErrNotFound)

		_, err = identities.Create(ctx, model.IdentityEntry{Principal: "owner-2", Handle: "inst-2"})
		require.NoError(t, err)

		count, err := identities.Count(ctx)
		require.NoError(t, err)
		require.Equal(t, uint64(2), count)

		list, err := identities.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		require.Equal(t, model.Principal("owner-1"), list[0].Principal)
	})

	t.Run("pending_instances", func(t *testing.T) {
		_, err := identities.GetPending(ctx, "owner-3")
		require.ErrorIs(t, err, model.ErrNotFound)

		require.NoError(t, identities.SavePending(ctx, "owner-3", "inst-3"))
		handle, err := identities.GetPending(ctx, "owner-3")
		require.NoError(t, err)
		require.Equal(t, model.InstanceHandle("inst-3"), handle)

		_, err = identities.Create(ctx, model.IdentityEntry{Principal: "owner-3", Handle: handle})
		require.NoError(t, err)
		_, err = identities.GetPending(ctx, "owner-3")
		require.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("username_repository", func(t *testing.T) {
		require.NoError(t, usernames.Claim(ctx, model.UsernameEntry{Username: "alice", Principal: "owner-1"}))
		require.ErrorIs(t, usernames.Claim(ctx, model.UsernameEntry{Username: "alice", Principal: "owner-2"}), model.ErrUsernameAlreadyTaken)
		require.NoError(t, usernames.Claim(ctx, model.UsernameEntry{Username: "alice", Principal: "owner-1"}))

		require.NoError(t, usernames.Claim(ctx, model.UsernameEntry{Username: "alicia", Principal: "owner-1"}))
		_, err := usernames.GetByUsername(ctx, "alice")
		require.ErrorIs(t, err, model.ErrNotFound)

		owned, err := usernames.GetByOwner(ctx, "owner-1")
		require.NoError(t, err)
		require.Equal(t, "alicia", owned.Username)
	})

	t.Run("username_race", func(t *testing.T) {
		for i := 0; i < 6; i++ {
			_, err := identities.Create(ctx, model.IdentityEntry{
				Principal: model.Principal(fmt.Sprintf("racer-%d", i)),
				Handle:    model.InstanceHandle(fmt.Sprintf("racer-inst-%d", i)),
			})
			require.NoError(t, err)
		}

		var (
			wg   sync.WaitGroup
			mu   sync.Mutex
			wins int
		)
		for i := 0; i < 6; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				err := usernames.Claim(ctx, model.UsernameEntry{Username: "contested", Principal: model.Principal(fmt.Sprintf("racer-%d", i))})
				if err == nil {
					mu.Lock()
					wins++
					mu.Unlock()
					return
				}
				assert.ErrorIs(t, err, model.ErrUsernameAlreadyTaken)
			}(i)
		}
		wg.Wait()
		require.Equal(t, 1, wins)
	})

	t.Run("status_repository", func(t *testing.T) {
		empty, err := statuses.GetUpgradeStatus(ctx)
		require.NoError(t, err)
		require.Zero(t, empty.Version)

		now := time.Now().UTC().Truncate(time.Millisecond)
		require.NoError(t, statuses.SaveUpgradeStatus(ctx, model.UpgradeStatus{
			Version:         1,
			LastRunAt:       now,
			Mode:            model.InstallModeUpgrade,
			SuccessfulCount: 2,
			Failed:          []model.SweepFailure{{Principal: "owner-2", Handle: "inst-2", Context: "upgrade", Error: "out of cycles"}},
		}))

		got, err := statuses.GetUpgradeStatus(ctx)
		require.NoError(t, err)
		require.Equal(t, uint64(1), got.Version)
		require.Len(t, got.Failed, 1)
		require.Equal(t, "out of cycles", got.Failed[0].Error)

		require.NoError(t, statuses.SaveUpgradeStatus(ctx, model.UpgradeStatus{Version: 2, LastRunAt: now, SuccessfulCount: 3}))
		got, err = statuses.GetUpgradeStatus(ctx)
		require.NoError(t, err)
		require.Equal(t, uint64(2), got.Version)
		require.Empty(t, got.Failed)

		require.NoError(t, statuses.SaveBackupStatus(ctx, model.BackupStatus{Run: 1, RunID: "run-1", LastRunAt: now, SuccessfulCount: 3}))
		backup, err := statuses.GetBackupStatus(ctx)
		require.NoError(t, err)
		require.Equal(t, "run-1", backup.RunID)
	})
}
