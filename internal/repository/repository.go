// Package repository handles all interactions with the database.
//
// It contains raw SQL queries and methods to fetch, persist,
// or update data, abstracting SQL logic away from the service layer.
// Column lists are read from the entity table descriptions, so SELECT
// lists and row scanning follow one declared order.
package repository
