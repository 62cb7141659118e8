package chat

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reach-skyline/chat-service/database"
	"github.com/reach-skyline/chat-service/models"
)

func TestResolveOrCreateRoomIsIdempotent(t *testing.T) {
	setupTestDB(t)

	first, err := ResolveOrCreateRoom("T5", "EMP007", "EMP001", "Branding")
	require.NoError(t, err)
	require.NotZero(t, first.ID)

	second, err := ResolveOrCreateRoom("T5", "EMP007", "EMP001", "Branding")
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, database.DB.Model(&models.ChatRoom{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestResolveOrCreateRoomConcurrentFirstContact(t *testing.T) {
	setupTestDB(t)

	const callers = 8

	ids := make([]uint, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			room, err := ResolveOrCreateRoom("T5", "EMP007", "EMP001", "Branding")
			if err != nil {
				errs[i] = err
				return
			}
			ids[i] = room.ID
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i], "caller %d", i)
		require.Equal(t, ids[0], ids[i], "caller %d observed a different room", i)
	}

	var count int64
	require.NoError(t, database.DB.Model(&models.ChatRoom{}).Count(&count).Error)
	require.EqualValues(t, 1, count, "exactly one room must be persisted")
}

func TestResolveOrCreateRoomDistinctTriplesGetDistinctRooms(t *testing.T) {
	setupTestDB(t)

	first, err := ResolveOrCreateRoom("T5", "EMP007", "EMP001", "Branding")
	require.NoError(t, err)

	otherTask, err := ResolveOrCreateRoom("T6", "EMP007", "EMP001", "Branding")
	require.NoError(t, err)
	require.NotEqual(t, first.ID, otherTask.ID)

	otherEmployee, err := ResolveOrCreateRoom("T5", "EMP008", "EMP001", "Branding")
	require.NoError(t, err)
	require.NotEqual(t, first.ID, otherEmployee.ID)
}

func TestResolveOrCreateRoomRejectsInvalidParticipants(t *testing.T) {
	setupTestDB(t)

	cases := []struct {
		name       string
		taskID     string
		employeeID string
		teamLeadID string
	}{
		{"missing task", "", "EMP007", "EMP001"},
		{"missing employee", "T5", "", "EMP001"},
		{"missing team lead", "T5", "EMP007", ""},
		{"employee equals team lead", "T5", "EMP007", "EMP007"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ResolveOrCreateRoom(tc.taskID, tc.employeeID, tc.teamLeadID, "Branding")
			require.ErrorIs(t, err, ErrInvalidParticipants)
		})
	}
}

func TestGetRoomNotFound(t *testing.T) {
	setupTestDB(t)

	_, err := GetRoom(999)
	require.ErrorIs(t, err, ErrRoomNotFound)
}
