/*
Package escrow implements a two party atomic token swap.

The initializer moves token X into a custody token account and hands its
ownership to a keyless custody authority derived from the program identity.
The escrow state account records who the initializer is, which custody
account holds the deposit and where token Y must be delivered, together
with the amount of token Y expected in return.

Any taker who sends exactly that amount of token Y triggers the exchange.
Token Y goes to the initializer, the whole custody balance goes to the
taker, the custody account is closed and the escrow state account is
emptied, all within a single transaction. Either every leg succeeds or
none of them is observable.

There is no way to cancel an escrow. A deposit stays in custody until a
taker shows up.
*/
package escrow
