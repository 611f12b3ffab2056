package usergroup

import (
	"context"
	"fmt"
	"sort"
	"sync"

	multierror "github.com/hashicorp/go-multierror"
	"github.com/steelcutops/usermgr/usermgr/usermanager"
	"golang.org/x/sync/semaphore"
)

// UserGroup is a selection of users that bulk operations run against.
type UserGroup struct {
	sync.RWMutex
	Users map[usermanager.ID]usermanager.User
}

// NewUserGroup creates a new UserGroup with the given users.
func NewUserGroup(users ...usermanager.User) *UserGroup {
	userMap := make(map[usermanager.ID]usermanager.User)
	for _, u := range users {
		userMap[u.ID] = u
	}
	return &UserGroup{Users: userMap}
}

// AddUser adds a user to the UserGroup.
func (ug *UserGroup) AddUser(u usermanager.User) {
	ug.Lock()
	defer ug.Unlock()
	ug.Users[u.ID] = u
}

// RemoveUser removes a user from the UserGroup by its id.
func (ug *UserGroup) RemoveUser(id usermanager.ID) {
	ug.Lock()
	defer ug.Unlock()
	delete(ug.Users, id)
}

// HasUser checks if a user with the given id exists in the UserGroup.
func (ug *UserGroup) HasUser(id usermanager.ID) bool {
	ug.RLock()
	defer ug.RUnlock()
	_, exists := ug.Users[id]
	return exists
}

// IDs returns the member ids in sorted order.
func (ug *UserGroup) IDs() []usermanager.ID {
	ug.RLock()
	defer ug.RUnlock()
	ids := make([]usermanager.ID, 0, len(ug.Users))
	for id := range ug.Users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Delete removes every member from the server, at most concurrency at a
// time. Users deleted successfully leave the group; every failure is
// returned in a *multierror.Error and the failing users stay.
func (ug *UserGroup) Delete(ctx context.Context, um usermanager.UserManager, concurrency int) error {
	if concurrency < 1 {
		concurrency = 1
	}
	sem := semaphore.NewWeighted(int64(concurrency))

	ids := ug.IDs()
	errCh := make(chan error, len(ids))
	var wg sync.WaitGroup

	for _, id := range ids {
		if err := sem.Acquire(ctx, 1); err != nil {
			errCh <- fmt.Errorf("error while deleting user %s: %w", id, err)
			continue
		}
		wg.Add(1)
		go func(id usermanager.ID) {
			defer wg.Done()
			defer sem.Release(1)

			if err := um.DeleteUser(ctx, id); err != nil {
				errCh <- fmt.Errorf("error while deleting user %s: %w", id, err)
				return
			}
			ug.RemoveUser(id)
		}(id)
	}

	wg.Wait()
	close(errCh)

	var result *multierror.Error
	for err := range errCh {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}
