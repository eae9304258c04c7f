package inmemdb

import (
	"sync"

	"github.com/facsched/backend/core/faculty"
)

type (
	DB struct {
		faculty *facultyTable
	}

	facultyTable struct {
		mutex sync.RWMutex
		table map[string]*faculty.Profile
	}
)

func Open() *DB {
	return &DB{
		faculty: &facultyTable{table: make(map[string]*faculty.Profile)},
	}
}
