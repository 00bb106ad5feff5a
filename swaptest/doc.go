/*
Package swaptest provides helpers to build signed transactions and token
fixtures in tests.
*/
package swaptest
