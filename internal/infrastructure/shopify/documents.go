package shopify

// ProductQuery fetches a product by global id with the metafields and
// variant data the app works with.
const ProductQuery = `
query getProduct($id: ID!) {
  product(id: $id) {
    id
    title
    handle
    metafields(first: 20) {
      edges {
        node {
          id
          namespace
          key
          value
        }
      }
    }
    variants(first: 50) {
      edges {
        node {
          id
          title
          sku
          price
        }
      }
    }
  }
}
`

// ProductBySKUQuery finds the first product matching a search query
// (e.g. "sku:ABC-123").
const ProductBySKUQuery = `
query getProductBySku($query: String!) {
  products(first: 1, query: $query) {
    edges {
      node {
        id
        title
        handle
        variants(first: 50) {
          edges {
            node {
              id
              title
              sku
              price
            }
          }
        }
      }
    }
  }
}
`

// ProductUpdateMutation writes metafields onto a product.
const ProductUpdateMutation = `
mutation productUpdate($input: ProductInput!) {
  productUpdate(input: $input) {
    product {
      id
    }
    userErrors {
      field
      message
    }
  }
}
`

// MetafieldDeleteMutation removes one metafield by id.
const MetafieldDeleteMutation = `
mutation metafieldDelete($input: MetafieldDeleteInput!) {
  metafieldDelete(input: $input) {
    deletedId
    userErrors {
      field
      message
    }
  }
}
`
