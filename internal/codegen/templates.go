package codegen

// luauTemplate renders the product catalog as a Luau ModuleScript.
const luauTemplate = `-- Generated by bloxsync for universe {{.UniverseID}}. Do not edit by hand.

export type ProductInfo = {
	id: number,
	type: string,
	name: string,
	price: number,
}

local Products: { [string]: ProductInfo } = {
{{- range .Entries}}
	{{.Key}} = {
		id = {{.ID}},
		type = "{{.Type}}",
		name = "{{luastr .Name}}",
		price = {{.Price}},
	},
{{- end}}
}

return Products
`

// typescriptTemplate renders the matching roblox-ts declaration file.
const typescriptTemplate = `// Generated by bloxsync for universe {{.UniverseID}}. Do not edit by hand.

interface ProductInfo {
	readonly id: number;
	readonly type: string;
	readonly name: string;
	readonly price: number;
}

declare const Products: {
{{- range .Entries}}
	readonly {{.Key}}: ProductInfo;
{{- end}}
};

export = Products;
`
