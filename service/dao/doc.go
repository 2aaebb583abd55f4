// Package dao defines the generic storage contract shared by review item
// stores, along with its sentinel errors and list parameters.
package dao
