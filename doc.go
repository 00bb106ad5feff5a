/*
Package tokenswap defines the interfaces shared by the ledger host and the
programs it runs: accounts, the program entry point, cross program calls,
the rent sysvar and storage.

A program is stateless. It receives the identity it runs under, the list of
accounts a transaction handed to it and the raw instruction bytes. Every
change it makes is a change to one of those accounts, and the host decides
after the instruction returned whether the change is allowed and whether
the transaction as a whole is committed.

The escrow program lives in x/escrow, the token ledger it talks to in
x/token. The app package glues everything into a ledger.
*/
package tokenswap
