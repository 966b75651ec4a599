/*
Package fileops encrypts, decrypts, and updates armored saltybox data, both in memory and on disk.

Every file written by this package goes through WriteAtomic: the content is written to a temporary file in the
destination directory, synced, given restrictive permissions, and renamed over the destination. A reader of the
destination observes either the old content or the complete new content.

# Update

Updating an encrypted file is a two-phase operation.
The existing file is first decrypted with the supplied passphrase, and the recovered plaintext is discarded.
Only if that succeeds is the new plaintext encrypted under the same passphrase and written over the existing file.
This prevents a mistyped passphrase from silently re-encrypting a file under a passphrase nobody knows.
*/
package fileops
