/*
Package secretcrypt implements passphrase based encryption and decryption of byte buffers.

A 32 byte key is derived from the passphrase with scrypt (N=32768, r=8, p=1) and a random 8 byte salt.
The plaintext is sealed with NaCl secretbox (XSalsa20-Poly1305) under a random 24 byte nonce.

# Format

The encoded Envelope is, with all integers big-endian:

	salt (8) | nonce (24) | sealed box length (8, signed) | sealed box (tag (16) | ciphertext)

The format is guaranteed to never change. Any change will come in the form of a new armor version in package varmor,
rather than by evolving this implementation.
*/
package secretcrypt
