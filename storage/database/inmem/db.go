package inmemdb

import (
	"sync"
	"time"

	"github.com/trezcool/sesiones/core/session"
	"github.com/trezcool/sesiones/core/user"
)

type (
	DB struct {
		session *sessionTable
		user    *userTable
		now     func() time.Time
	}

	sessionTable struct {
		table map[string]*session.Session
		order []string // insertion order
		mutex sync.RWMutex
	}

	userTable struct {
		table map[string]*user.User
		order []string // insertion order
		mutex sync.RWMutex
	}
)

func Open() *DB {
	return &DB{
		session: &sessionTable{table: make(map[string]*session.Session)},
		user:    &userTable{table: make(map[string]*user.User)},
		now:     time.Now,
	}
}

func remove(order []string, id string) []string {
	for i, v := range order {
		if v == id {
			return append(order[:i], order[i+1:]...)
		}
	}
	return order
}
