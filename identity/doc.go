// Package identity guarda quem está agindo na sessão e permite um nível de
// personificação (um administrador ou assessor vendo a conta de outra pessoa).
//
// Stack é a única célula de identidade do processo; ela é construída explicitamente
// e injetada em quem precisa (ver appstate).
package identity
