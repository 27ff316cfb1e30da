// Copyright 2025 Attendee Labs.
// SPDX-License-Identifier: 	AGPL-3.0-or-later

package mocks

import (
	"github.com/attendee-dev/attendee/common"
	"github.com/attendee-dev/attendee/shared"
	"github.com/stretchr/testify/mock"
)

// Repository is the expectation base embedded by the concrete repository
// mocks. The transaction helpers behave like a repository running outside a
// transaction instead of recording expectations, so tests only stub the
// queries they actually care about.
type Repository[ID comparable, T common.Tabler] struct {
	mock.Mock
}

func (m *Repository[ID, T]) Create(tx shared.DB, t *T) error {
	args := m.Called(tx, t)
	return args.Error(0)
}

func (m *Repository[ID, T]) Save(tx shared.DB, t *T) error {
	args := m.Called(tx, t)
	return args.Error(0)
}

func (m *Repository[ID, T]) Delete(tx shared.DB, id ID) error {
	args := m.Called(tx, id)
	return args.Error(0)
}

func (m *Repository[ID, T]) Read(id ID) (T, error) {
	args := m.Called(id)
	var t T
	if args.Get(0) != nil {
		t = args.Get(0).(T)
	}
	return t, args.Error(1)
}

func (m *Repository[ID, T]) List(ids []ID) ([]T, error) {
	args := m.Called(ids)
	var ts []T
	if args.Get(0) != nil {
		ts = args.Get(0).([]T)
	}
	return ts, args.Error(1)
}

func (m *Repository[ID, T]) All() ([]T, error) {
	args := m.Called()
	var ts []T
	if args.Get(0) != nil {
		ts = args.Get(0).([]T)
	}
	return ts, args.Error(1)
}

func (m *Repository[ID, T]) CreateBatch(tx shared.DB, ts []T) error {
	args := m.Called(tx, ts)
	return args.Error(0)
}

func (m *Repository[ID, T]) SaveBatch(tx shared.DB, ts []T) error {
	args := m.Called(tx, ts)
	return args.Error(0)
}

func (m *Repository[ID, T]) Transaction(fn func(tx shared.DB) error) error {
	return fn(nil)
}

func (m *Repository[ID, T]) GetDB(tx shared.DB) shared.DB {
	return tx
}

func (m *Repository[ID, T]) Begin() shared.DB {
	return nil
}
