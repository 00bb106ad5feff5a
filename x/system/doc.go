/*
Package system implements the program that owns every fresh account.

It funds and allocates new accounts and assigns them to their owning
program, and it moves lamports between accounts that carry no data.
*/
package system
