/*
Package token implements the token ledger program the escrow issues its
sub-operations against.

Token balances live in token accounts (165 bytes) that belong to a mint
(82 bytes). Both use the standard fixed layouts so that instructions built
with any token client can be executed here. Only the subset of the
instruction set needed to create mints and accounts and to move, reassign
and close balances is supported.
*/
package token
